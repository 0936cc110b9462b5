// Package facets turns raw per-facet user input into well-typed partial
// updates. A controller knows nothing about other facets: it owns its draft
// text, its debounced suggestion fetch and its suggestion list, and funnels
// every state change through the coordinator as a single-key emit.
package facets

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/scoutly/creatorscout/pkg/coordinator"
	"github.com/scoutly/creatorscout/pkg/labels"
	"github.com/scoutly/creatorscout/pkg/suggest"
	"github.com/scoutly/creatorscout/pkg/types"
)

type Controller struct {
	desc    types.FacetDescriptor
	coord   *coordinator.Coordinator
	panels  *coordinator.Panels
	labels  *labels.Resolver
	fetcher suggest.Fetcher
	deb     *suggest.Debouncer

	mu          sync.Mutex
	draft       string
	suggestions []suggest.Suggestion
	fetchErr    error
}

func NewController(desc types.FacetDescriptor, coord *coordinator.Coordinator, panels *coordinator.Panels, resolver *labels.Resolver, fetcher suggest.Fetcher) *Controller {
	c := &Controller{
		desc:    desc,
		coord:   coord,
		panels:  panels,
		labels:  resolver,
		fetcher: fetcher,
	}
	if desc.Async {
		c.deb = suggest.NewDebouncer(time.Duration(desc.DebounceMs) * time.Millisecond)
	}
	coord.OnReset(c.Reset)
	return c
}

func (c *Controller) Descriptor() types.FacetDescriptor { return c.desc }
func (c *Controller) Key() types.FacetKey               { return c.desc.Key }

// OnInput updates the local draft immediately and, for async facets at or
// above the minimum query length, schedules the debounced fetch. A shorter
// draft cancels any outstanding fetch so a late response cannot populate a
// list the user already abandoned.
func (c *Controller) OnInput(raw string) {
	c.mu.Lock()
	c.draft = raw
	c.mu.Unlock()

	if !c.desc.Async || c.fetcher == nil {
		return
	}
	if len(raw) < c.desc.MinQueryLength {
		c.deb.Cancel()
		c.mu.Lock()
		c.suggestions = nil
		c.fetchErr = nil
		c.mu.Unlock()
		return
	}
	c.deb.Schedule(func(ctx context.Context, seq uint64) {
		c.fetch(ctx, seq, raw)
	})
}

func (c *Controller) fetch(ctx context.Context, seq uint64, query string) {
	items, err := c.fetcher.Suggest(ctx, c.desc.SuggestPath, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.deb.Current(seq) {
		// A newer keystroke superseded this fetch.
		return
	}
	if err != nil {
		// Stays inside this facet's panel; other facets are unaffected.
		log.Printf("facet %s suggest failed: %v", c.desc.Key, err)
		c.suggestions = nil
		c.fetchErr = err
		return
	}
	c.suggestions = items
	c.fetchErr = nil
	for _, item := range items {
		c.rememberLabel(item)
	}
}

func (c *Controller) rememberLabel(item suggest.Suggestion) {
	if c.labels == nil {
		return
	}
	if c.desc.Kind == types.KindGeo {
		if id, ok := parseGeoId(item.Id); ok {
			c.labels.RememberGeo(id, item.Label)
		}
		return
	}
	c.labels.Remember(item.Value(), item.Label)
}

// Draft returns the current draft text.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Suggestions returns the current list and any fetch error. Both empty means
// nothing fetched (yet).
func (c *Controller) Suggestions() ([]suggest.Suggestion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]suggest.Suggestion, len(c.suggestions))
	copy(out, c.suggestions)
	return out, c.fetchErr
}

// SelectSuggestion resolves the item into the label cache, folds it into the
// facet value and emits the partial update. The suggestion list clears and
// the facet's panel closes.
func (c *Controller) SelectSuggestion(item suggest.Suggestion) {
	c.rememberLabel(item)
	c.emit(c.valueWithSelection(item))

	c.mu.Lock()
	c.suggestions = nil
	c.fetchErr = nil
	c.draft = ""
	c.mu.Unlock()
	if c.deb != nil {
		c.deb.Cancel()
	}
	if c.panels != nil && c.panels.IsOpen(c.desc.Key) {
		c.panels.CloseAll()
	}
}

// Remove drops one entry from a set-kind facet. Removing the last entry
// emits nil, the same as never having set the facet.
func (c *Controller) Remove(identifier string) {
	c.emit(c.valueWithoutEntry(identifier))
}

// ClearFacet unsets the whole key and drops facet-local state.
func (c *Controller) ClearFacet() {
	c.Reset()
	c.emit(nil)
}

// Reset drops draft, suggestions and any in-flight fetch without emitting.
// Broadcast by the coordinator on Clear so a cleared session is
// indistinguishable from a fresh one.
func (c *Controller) Reset() {
	if c.deb != nil {
		c.deb.Cancel()
	}
	c.mu.Lock()
	c.draft = ""
	c.suggestions = nil
	c.fetchErr = nil
	c.mu.Unlock()
}

func (c *Controller) emit(value types.FacetValue) {
	c.coord.MergePartial(c.desc.Key, value)
}

// displayValue reads this facet's current value from applied ⊕ pending,
// never from the applied snapshot alone.
func (c *Controller) displayValue() types.FacetValue {
	return c.coord.Display()[c.desc.Key]
}
