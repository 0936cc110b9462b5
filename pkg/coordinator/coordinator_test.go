package coordinator

import (
	"reflect"
	"sync"
	"testing"

	"pgregory.net/rapid"

	"github.com/scoutly/creatorscout/pkg/types"
)

func fp(v float64) *float64 { return &v }

func TestMergePartialOverridesKeyByKey(t *testing.T) {
	c := New(NewPanels())
	c.MergePartial(types.FacetFollowers, types.Range{Low: fp(100)})
	c.MergePartial(types.FacetFollowers, types.Range{Low: fp(200)})
	c.MergePartial(types.FacetNiches, types.StringSet{"fitness"})

	display := c.Display()
	if got := display[types.FacetFollowers].(types.Range); *got.Low != 200 {
		t.Errorf("latest write should win, got %v", got)
	}
	if _, ok := display[types.FacetNiches]; !ok {
		t.Error("second key missing")
	}
	if c.State() != StateEditing {
		t.Errorf("expected editing state, got %s", c.State())
	}
}

// Display must equal applied overridden key-by-key by the latest pending
// write, for any interleaving of edits and applies.
func TestDisplayMergeProperty(t *testing.T) {
	keys := []types.FacetKey{types.FacetFollowers, types.FacetAge, types.FacetEngagements, types.FacetReelsPlays}
	rapid.Check(t, func(t *rapid.T) {
		c := New(nil)
		model := map[types.FacetKey]float64{}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			key := rapid.SampledFrom(keys).Draw(t, "key")
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0, 1:
				v := rapid.Float64Range(0, 1e6).Draw(t, "low")
				c.MergePartial(key, types.Range{Low: fp(v)})
				model[key] = v
			case 2:
				c.MergePartial(key, nil)
				delete(model, key)
			case 3:
				c.Apply()
			}

			display := c.Display()
			if len(display) != len(model) {
				t.Fatalf("display has %d keys, model %d", len(display), len(model))
			}
			for k, want := range model {
				got, ok := display[k].(types.Range)
				if !ok || *got.Low != want {
					t.Fatalf("display[%s] = %#v, want low %v", k, display[k], want)
				}
			}
		}
	})
}

func TestApplyFlattensExactlyOnce(t *testing.T) {
	c := New(NewPanels())
	c.MergePartial(types.FacetFollowers, types.Range{Low: fp(10000), High: fp(50000)})
	c.MergePartial(types.FacetGender, types.WeightedCode{Code: "FEMALE", Weight: 0.3})

	before := c.Display()
	c.Apply()

	if len(c.Pending()) != 0 {
		t.Error("pending not cleared by apply")
	}
	if !reflect.DeepEqual(c.Applied(), before) {
		t.Errorf("applied %#v != pre-apply display %#v", c.Applied(), before)
	}
	if c.State() != StateIdle {
		t.Errorf("expected idle after apply, got %s", c.State())
	}
}

func TestCancelNeverTouchesApplied(t *testing.T) {
	c := New(NewPanels())
	c.MergePartial(types.FacetFollowers, types.Range{Low: fp(1000)})
	c.Apply()
	appliedBefore := c.Applied()

	c.MergePartial(types.FacetFollowers, types.Range{Low: fp(9999)})
	c.MergePartial(types.FacetNiches, types.StringSet{"food"})
	c.Cancel()

	if !reflect.DeepEqual(c.Applied(), appliedBefore) {
		t.Error("cancel changed applied")
	}
	if !reflect.DeepEqual(c.Display(), appliedBefore) {
		t.Error("display after cancel should equal pre-edit applied")
	}
}

func TestClearIsTotal(t *testing.T) {
	c := New(NewPanels())
	resets := 0
	c.OnReset(func() { resets++ })
	c.MergePartial(types.FacetFollowers, types.Range{Low: fp(1000)})
	c.Apply()
	c.MergePartial(types.FacetNiches, types.StringSet{"food"})

	c.Clear()

	if len(c.Display()) != 0 {
		t.Errorf("display not empty after clear: %#v", c.Display())
	}
	if resets != 1 {
		t.Errorf("expected one reset broadcast, got %d", resets)
	}
}

func TestClearEmitsEmptySnapshot(t *testing.T) {
	c := New(nil)
	var got []types.FilterSnapshot
	c.OnApply(func(s types.FilterSnapshot) { got = append(got, s) })
	c.MergePartial(types.FacetTopics, types.StringSet{"travel"})
	c.Apply()
	c.Clear()
	if len(got) != 2 {
		t.Fatalf("expected apply+clear emissions, got %d", len(got))
	}
	if len(got[1]) != 0 {
		t.Errorf("clear should emit empty snapshot, got %#v", got[1])
	}
}

func TestEmptyApplyClosesPanelsWithoutEmitting(t *testing.T) {
	panels := NewPanels()
	c := New(panels)
	fired := 0
	c.OnApply(func(types.FilterSnapshot) { fired++ })

	panels.Toggle(types.FacetLocation)
	c.Apply()

	if fired != 0 {
		t.Error("no-op apply must not emit a snapshot")
	}
	if panels.Open() != "" {
		t.Error("apply must close panels even with empty pending")
	}
}

// Two facets edited in the same tick both land in pending.
func TestConcurrentDistinctKeyEdits(t *testing.T) {
	c := New(nil)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.MergePartial(types.FacetTrending, types.HashtagSet{{Name: "fyp"}})
	}()
	go func() {
		defer wg.Done()
		c.MergePartial(types.FacetInterests, types.StringSet{"gaming"})
	}()
	wg.Wait()

	pending := c.Pending()
	if _, ok := pending[types.FacetTrending]; !ok {
		t.Error("hashtag edit lost")
	}
	if _, ok := pending[types.FacetInterests]; !ok {
		t.Error("interest edit lost")
	}
}

// Selecting "Any" must survive apply as an explicit zero-weight value,
// distinguishable from an absent key.
func TestAnySentinelSurvivesApply(t *testing.T) {
	c := New(nil)
	c.MergePartial(types.FacetGender, types.WeightedCode{Code: "FEMALE", Weight: 0.3})
	c.Apply()
	c.MergePartial(types.FacetGender, types.AnyWeightedCode())
	c.Apply()

	v, ok := c.Applied()[types.FacetGender]
	if !ok {
		t.Fatal("gender key absent; sentinel was dropped")
	}
	wc := v.(types.WeightedCode)
	if wc.Code != "" || wc.Weight != 0 {
		t.Errorf("unexpected sentinel %#v", wc)
	}
}

// Emitting an empty set reads the same as never having set the facet.
func TestEmptySetNormalizedOnMerge(t *testing.T) {
	c := New(nil)
	c.MergePartial(types.FacetNiches, types.StringSet{})
	display := c.Display()
	if _, ok := display[types.FacetNiches]; ok {
		t.Error("empty set should display as unset")
	}
	c.Apply()
	if _, ok := c.Applied()[types.FacetNiches]; ok {
		t.Error("empty set should not survive apply")
	}
}
