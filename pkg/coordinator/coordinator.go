// Package coordinator owns canonical filter state: the applied snapshot, the
// pending delta, and the apply/cancel/clear protocol that decides when edits
// reach the search driver. Controllers never write applied or pending
// directly; they emit partial updates through MergePartial, which keeps
// distinct-key edits in the same tick from losing each other.
package coordinator

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/scoutly/creatorscout/pkg/types"
)

var (
	noApplies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorscout_filter_applies_total",
		Help: "The total number of filter apply operations",
	})
	noClears = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorscout_filter_clears_total",
		Help: "The total number of filter clear operations",
	})
	noCancels = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorscout_filter_cancels_total",
		Help: "The total number of filter cancel operations",
	})
)

// State is the coordinator's synchronous phase. There is no async state
// here; only facet-local suggestion data is asynchronous.
type State string

const (
	StateIdle    State = "idle"
	StateEditing State = "editing"
)

// ApplyFunc receives the flattened snapshot on every Apply or Clear, with
// page already expected to reset to 1 by the receiver.
type ApplyFunc func(applied types.FilterSnapshot)

// ResetFunc is broadcast on Clear so facet-local drafts and suggestion lists
// vanish too; a full Clear must look like a fresh session.
type ResetFunc func()

type Coordinator struct {
	mu      sync.RWMutex
	applied types.FilterSnapshot
	pending types.PendingDelta
	panels  *Panels

	onApply []ApplyFunc
	onReset []ResetFunc
}

func New(panels *Panels) *Coordinator {
	return &Coordinator{
		applied: types.FilterSnapshot{},
		pending: types.PendingDelta{},
		panels:  panels,
	}
}

// OnApply registers a listener for flattened snapshots. Registration happens
// during session assembly, before concurrent use.
func (c *Coordinator) OnApply(fn ApplyFunc) {
	c.onApply = append(c.onApply, fn)
}

// OnReset registers a facet-local reset hook, fired by Clear.
func (c *Coordinator) OnReset(fn ResetFunc) {
	c.onReset = append(c.onReset, fn)
}

// MergePartial records one facet's edit in the pending delta. A nil value is
// an explicit clear of that key. Writes to distinct keys never conflict.
func (c *Coordinator) MergePartial(key types.FacetKey, value types.FacetValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[key] = types.NormalizeEmpty(value)
}

// Display returns applied ⊕ pending, recomputed on every call so in-progress
// edits are always visible before Apply.
func (c *Coordinator) Display() types.FilterSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.applied.Overlay(c.pending)
}

// Applied returns a copy of the last-applied snapshot.
func (c *Coordinator) Applied() types.FilterSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.applied.Clone()
}

// Pending returns a copy of the pending delta.
func (c *Coordinator) Pending() types.PendingDelta {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(types.PendingDelta, len(c.pending))
	for k, v := range c.pending {
		out[k] = v
	}
	return out
}

func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.pending) == 0 {
		return StateIdle
	}
	return StateEditing
}

// Apply flattens pending into applied and notifies listeners. With an empty
// delta it is still a valid action: panels close, but no new snapshot is
// emitted and no search fires.
func (c *Coordinator) Apply() {
	c.mu.Lock()
	dirty := len(c.pending) > 0
	if dirty {
		c.applied = c.applied.Overlay(c.pending)
		c.pending = types.PendingDelta{}
	}
	snapshot := c.applied.Clone()
	c.mu.Unlock()

	if c.panels != nil {
		c.panels.CloseAll()
	}
	if !dirty {
		return
	}
	noApplies.Inc()
	for _, fn := range c.onApply {
		fn(snapshot)
	}
}

// Cancel discards the pending delta without touching applied.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	c.pending = types.PendingDelta{}
	c.mu.Unlock()

	if c.panels != nil {
		c.panels.CloseAll()
	}
	noCancels.Inc()
}

// Clear resets both maps and broadcasts the facet-local reset. Listeners get
// the empty snapshot so the result set refreshes unfiltered.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	c.applied = types.FilterSnapshot{}
	c.pending = types.PendingDelta{}
	c.mu.Unlock()

	if c.panels != nil {
		c.panels.CloseAll()
	}
	for _, fn := range c.onReset {
		fn()
	}
	noClears.Inc()
	for _, fn := range c.onApply {
		fn(types.FilterSnapshot{})
	}
}
