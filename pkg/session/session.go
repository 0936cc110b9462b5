// Package session assembles one coordinator stack per operator session: the
// filter coordinator, the panel coordinator, one controller per registered
// facet, the label resolver and the search driver. All state is in-memory
// for the session lifetime; nothing persists across sessions.
package session

import (
	"time"

	"github.com/scoutly/creatorscout/pkg/coordinator"
	"github.com/scoutly/creatorscout/pkg/driver"
	"github.com/scoutly/creatorscout/pkg/facets"
	"github.com/scoutly/creatorscout/pkg/labels"
	"github.com/scoutly/creatorscout/pkg/registry"
	"github.com/scoutly/creatorscout/pkg/suggest"
	"github.com/scoutly/creatorscout/pkg/types"
)

type Session struct {
	Id          string
	Registry    *registry.Registry
	Coordinator *coordinator.Coordinator
	Panels      *coordinator.Panels
	Labels      *labels.Resolver
	Driver      *driver.Driver

	controllers map[types.FacetKey]*facets.Controller
	lastSeen    time.Time
}

type Options struct {
	Registry     *registry.Registry
	Fetcher      suggest.Fetcher
	SearchClient driver.SearchClient
	SharedLabels labels.SharedCache
}

func New(id string, opts Options) *Session {
	reg := opts.Registry
	if reg == nil {
		reg = registry.MustDefault()
	}
	panels := coordinator.NewPanels()
	coord := coordinator.New(panels)
	resolver := labels.NewResolver()
	if opts.SharedLabels != nil {
		resolver.WithShared(opts.SharedLabels)
	}
	drv := driver.New(opts.SearchClient)
	coord.OnApply(drv.ApplySnapshot)

	s := &Session{
		Id:          id,
		Registry:    reg,
		Coordinator: coord,
		Panels:      panels,
		Labels:      resolver,
		Driver:      drv,
		controllers: make(map[types.FacetKey]*facets.Controller, reg.Len()),
		lastSeen:    time.Now(),
	}
	for _, key := range reg.Keys() {
		desc, _ := reg.Get(key)
		s.controllers[key] = facets.NewController(desc, coord, panels, resolver, opts.Fetcher)
	}
	return s
}

func (s *Session) Controller(key types.FacetKey) (*facets.Controller, bool) {
	c, ok := s.controllers[key]
	return c, ok
}

// ResolveChips maps a snapshot's opaque selections to display labels, keyed
// by facet. Only id-carrying kinds appear; scalar facets render themselves.
func (s *Session) ResolveChips(snapshot types.FilterSnapshot) map[types.FacetKey][]string {
	out := make(map[types.FacetKey][]string)
	for key, value := range snapshot {
		switch v := value.(type) {
		case types.GeoSet:
			chips := make([]string, 0, len(v))
			for _, place := range v {
				chips = append(chips, s.Labels.ResolveGeo(place.Id))
			}
			out[key] = chips
		case types.LanguageShareSet:
			chips := make([]string, 0, len(v))
			for _, share := range v {
				chips = append(chips, s.Labels.Resolve(share.Code))
			}
			out[key] = chips
		case types.StringSet:
			desc, ok := s.Registry.Get(key)
			if ok && desc.Async && !desc.HandleSet {
				chips := make([]string, 0, len(v))
				for _, id := range v {
					chips = append(chips, s.Labels.Resolve(id))
				}
				out[key] = chips
			}
		}
	}
	return out
}
