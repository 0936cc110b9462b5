package types

import (
	"encoding/json"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestRangeInverted(t *testing.T) {
	if (Range{Low: fp(10), High: fp(5)}).Inverted() != true {
		t.Error("expected inverted range")
	}
	if (Range{Low: fp(5), High: fp(10)}).Inverted() {
		t.Error("range in order reported inverted")
	}
	if (Range{Low: fp(5)}).Inverted() {
		t.Error("half-open range reported inverted")
	}
}

func TestRangeEmpty(t *testing.T) {
	if !(Range{}).Empty() {
		t.Error("zero range should be empty")
	}
	if (Range{Low: fp(0)}).Empty() {
		t.Error("range with explicit zero bound is not empty")
	}
}

func TestStringSetDedupe(t *testing.T) {
	s := StringSet{}.With("fitness", false).With("fitness", false).With("food", false)
	if len(s) != 2 {
		t.Fatalf("expected 2 entries, got %v", s)
	}
	folded := StringSet{}.With("NASA", true).With("nasa", true)
	if len(folded) != 1 {
		t.Fatalf("expected fold dedupe, got %v", folded)
	}
}

func TestStringSetWithoutLastEntry(t *testing.T) {
	s := StringSet{"food"}
	got := NormalizeEmpty(s.Without("food", false))
	if got != nil {
		t.Errorf("removing last entry should normalize to nil, got %#v", got)
	}
}

func TestNormalizeHandle(t *testing.T) {
	cases := map[string]string{
		"@someone":   "someone",
		" @someone ": "someone",
		"someone":    "someone",
		"@@double":   "@double",
	}
	for in, want := range cases {
		if got := NormalizeHandle(in); got != want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHashtagSetFoldAndHashPrefix(t *testing.T) {
	h := HashtagSet{}.With(Hashtag{Name: "#Fitness"}).With(Hashtag{Name: "fitness"})
	if len(h) != 1 {
		t.Fatalf("expected 1 hashtag, got %v", h)
	}
	if h[0].Name != "Fitness" {
		t.Errorf("expected # stripped, got %q", h[0].Name)
	}
}

func TestLanguageShareUpsert(t *testing.T) {
	l := LanguageShareSet{}.
		With(LanguageShare{Code: "en", Percentage: 0.2}).
		With(LanguageShare{Code: "en", Percentage: 0.5}).
		With(LanguageShare{Code: "sv", Percentage: 0.1})
	if len(l) != 2 {
		t.Fatalf("expected upsert by code, got %v", l)
	}
	if l[0].Percentage != 0.5 {
		t.Errorf("expected replaced percentage 0.5, got %v", l[0].Percentage)
	}
}

func TestGeoSetUpsertAndRemove(t *testing.T) {
	g := GeoSet{}.
		With(GeoPlace{Id: 42, Weight: 0.1}).
		With(GeoPlace{Id: 42, Weight: 0.3}).
		With(GeoPlace{Id: 7})
	if len(g) != 2 {
		t.Fatalf("expected upsert by id, got %v", g)
	}
	if g[0].Weight != 0.3 {
		t.Errorf("expected weight updated to 0.3, got %v", g[0].Weight)
	}
	if got := NormalizeEmpty(g.Without(42).Without(7)); got != nil {
		t.Errorf("expected nil after removing all, got %#v", got)
	}
}

func TestWeightedCodeSentinelSurvivesNormalize(t *testing.T) {
	// The zero-weight "Any" sentinel must stay distinguishable from an
	// absent key.
	v := NormalizeEmpty(AnyWeightedCode())
	if v == nil {
		t.Fatal("Any sentinel normalized away")
	}
	wc, ok := v.(WeightedCode)
	if !ok || wc.Code != "" || wc.Weight != 0 {
		t.Errorf("unexpected sentinel %#v", v)
	}
}

func TestDecodeValueByKind(t *testing.T) {
	v, err := DecodeValue(KindRange, json.RawMessage(`{"low":10000,"high":50000}`))
	if err != nil {
		t.Fatal(err)
	}
	r, ok := v.(Range)
	if !ok || *r.Low != 10000 || *r.High != 50000 {
		t.Errorf("unexpected range %#v", v)
	}

	v, err = DecodeValue(KindGeo, json.RawMessage(`[{"id":42,"weight":0.2}]`))
	if err != nil {
		t.Fatal(err)
	}
	g, ok := v.(GeoSet)
	if !ok || len(g) != 1 || g[0].Id != 42 {
		t.Errorf("unexpected geo %#v", v)
	}

	v, err = DecodeValue(KindStringSet, json.RawMessage(`[]`))
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Errorf("empty set should decode to nil, got %#v", v)
	}

	v, err = DecodeValue(KindText, json.RawMessage(`null`))
	if err != nil || v != nil {
		t.Errorf("null should decode to nil, got %#v err %v", v, err)
	}

	if _, err = DecodeValue("bogus", json.RawMessage(`1`)); err == nil {
		t.Error("expected error for unknown kind")
	}
}
