package session

import (
	"testing"

	"github.com/scoutly/creatorscout/pkg/types"
)

func TestNewWiresOneControllerPerFacet(t *testing.T) {
	s := New("test", Options{})
	for _, key := range s.Registry.Keys() {
		if _, ok := s.Controller(key); !ok {
			t.Errorf("missing controller for %s", key)
		}
	}
	if _, ok := s.Controller("bogus"); ok {
		t.Error("unknown key should have no controller")
	}
}

func TestApplyFlattensThroughController(t *testing.T) {
	s := New("test", Options{})
	c, _ := s.Controller(types.FacetFollowers)
	c.SetRange(fp(1000), fp(50000))
	s.Coordinator.Apply()
	if _, ok := s.Coordinator.Applied()[types.FacetFollowers]; !ok {
		t.Error("apply did not flatten the edit")
	}
	if s.Driver.View().Page != 1 {
		t.Error("driver should sit on page 1 after apply")
	}
}

func fp(v float64) *float64 { return &v }

func TestResolveChips(t *testing.T) {
	s := New("test", Options{})
	s.Labels.RememberGeo(42, "London")
	s.Labels.Remember("fitness", "Fitness & Health")

	snapshot := types.FilterSnapshot{
		types.FacetLocation: types.GeoSet{{Id: 42}, {Id: 7}},
		types.FacetNiches:   types.StringSet{"fitness"},
		types.FacetMentions: types.StringSet{"nike"},
		types.FacetAge:      types.Range{Low: fp(18)},
	}
	chips := s.ResolveChips(snapshot)

	loc := chips[types.FacetLocation]
	if len(loc) != 2 || loc[0] != "London" || loc[1] != "Location 7" {
		t.Errorf("unexpected location chips %v", loc)
	}
	if got := chips[types.FacetNiches]; len(got) != 1 || got[0] != "Fitness & Health" {
		t.Errorf("unexpected niche chips %v", got)
	}
	if _, ok := chips[types.FacetMentions]; ok {
		t.Error("handle sets render themselves, no chips expected")
	}
	if _, ok := chips[types.FacetAge]; ok {
		t.Error("scalar facets render themselves, no chips expected")
	}
}
