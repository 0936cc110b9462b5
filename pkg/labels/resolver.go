// Package labels keeps the session-scoped mapping from opaque selected ids
// to human-readable display strings. Entries are written by any facet that
// sees a suggestion and read by any facet rendering a chip, so a label stays
// renderable after the suggestion list that produced it is gone.
package labels

import (
	"fmt"
	"strings"
	"sync"
)

// SharedCache is an optional write-through backend (see redis.go). Lookups
// never block on it; it only warms the in-memory map.
type SharedCache interface {
	Get(id string) (string, bool)
	Set(id string, label string)
}

type Resolver struct {
	mu     sync.RWMutex
	byId   map[string]string
	shared SharedCache
}

func NewResolver() *Resolver {
	return &Resolver{byId: make(map[string]string)}
}

// WithShared attaches a shared warm cache. Misses fall through to it once
// and successful hits are copied into the local map.
func (r *Resolver) WithShared(shared SharedCache) *Resolver {
	r.shared = shared
	return r
}

// Remember upserts id → label. First write wins; conflicting labels for the
// same id are ignored so repeated renders stay stable within a session.
func (r *Resolver) Remember(id, label string) {
	if id == "" || label == "" {
		return
	}
	r.mu.Lock()
	_, exists := r.byId[id]
	if !exists {
		r.byId[id] = label
	}
	r.mu.Unlock()
	if !exists && r.shared != nil {
		r.shared.Set(id, label)
	}
}

// Resolve never fails and never fetches: a miss produces a deterministic
// fallback derived purely from the id.
func (r *Resolver) Resolve(id string) string {
	r.mu.RLock()
	label, ok := r.byId[id]
	r.mu.RUnlock()
	if ok {
		return label
	}
	if r.shared != nil {
		if label, ok := r.shared.Get(id); ok {
			r.Remember(id, label)
			return label
		}
	}
	return Fallback(id)
}

// ResolveGeo renders a numeric location id.
func (r *Resolver) ResolveGeo(id int64) string {
	return r.Resolve(fmt.Sprintf("geo:%d", id))
}

func (r *Resolver) RememberGeo(id int64, label string) {
	r.Remember(fmt.Sprintf("geo:%d", id), label)
}

// Known reports whether an exact label is cached, without fallback.
func (r *Resolver) Known(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byId[id]
	return ok
}

func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byId)
}

// Fallback is the deterministic miss rendering: geo ids become
// "Location <id>", anything else is the raw code uppercased.
func Fallback(id string) string {
	if rest, ok := strings.CutPrefix(id, "geo:"); ok {
		return "Location " + rest
	}
	return strings.ToUpper(id)
}
