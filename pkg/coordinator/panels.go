package coordinator

import (
	"sync"

	"github.com/scoutly/creatorscout/pkg/types"
)

// Panels enforces the single-open-panel rule across all facets sharing the
// filter region. Opening one facet implicitly closes whichever was open, so
// no facet ever needs to close another explicitly.
type Panels struct {
	mu   sync.RWMutex
	open types.FacetKey
}

func NewPanels() *Panels {
	return &Panels{}
}

// Toggle opens key's panel, or closes it if it is already the open one.
// Returns whether the panel is open afterwards.
func (p *Panels) Toggle(key types.FacetKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open == key {
		p.open = ""
		return false
	}
	p.open = key
	return true
}

func (p *Panels) IsOpen(key types.FacetKey) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.open == key
}

// Open returns the owning facet key, or "" when everything is closed.
func (p *Panels) Open() types.FacetKey {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.open
}

// CloseAll is the outside-click/Escape path and runs on Apply, Cancel and
// Clear.
func (p *Panels) CloseAll() {
	p.mu.Lock()
	p.open = ""
	p.mu.Unlock()
}
