package types

import (
	"strings"
)

// FacetValue is one facet's well-typed value inside a snapshot. Values are
// treated as immutable; set operations return new values.
type FacetValue interface {
	Kind() FacetValueKind
	// Empty reports whether the value carries no selection. An empty set and
	// an absent key are equivalent; controllers emit nil instead of an empty
	// set so both read the same.
	Empty() bool
}

// Range covers followers, engagements, age and reels plays. Low > High is
// accepted as typed and forwarded as-is.
type Range struct {
	Low  *float64 `json:"low,omitempty"`
	High *float64 `json:"high,omitempty"`
}

func (r Range) Kind() FacetValueKind { return KindRange }
func (r Range) Empty() bool          { return r.Low == nil && r.High == nil }

// Inverted reports low > high with both bounds set. Kept as a query hint
// only, never used to reject the value.
func (r Range) Inverted() bool {
	return r.Low != nil && r.High != nil && *r.Low > *r.High
}

// WeightedCode expresses "at least Weight share of audience matches Code"
// (gender, ethnicity). Weight 0 with an empty code is the explicit "Any"
// sentinel some consumers key off, distinguishable from an absent key.
type WeightedCode struct {
	Code   string  `json:"code"`
	Weight float64 `json:"weight"`
}

func (w WeightedCode) Kind() FacetValueKind { return KindWeightedCode }
func (w WeightedCode) Empty() bool          { return false }

// AnyWeightedCode is the zero-weight sentinel emitted when "Any" is chosen.
func AnyWeightedCode() WeightedCode { return WeightedCode{Code: "", Weight: 0} }

// StringSet is an order-irrelevant unique collection (niches, account types,
// interests, lookalike handles).
type StringSet []string

func (s StringSet) Kind() FacetValueKind { return KindStringSet }
func (s StringSet) Empty() bool          { return len(s) == 0 }

func (s StringSet) Contains(v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

func (s StringSet) containsFold(v string) bool {
	for _, e := range s {
		if strings.EqualFold(e, v) {
			return true
		}
	}
	return false
}

// With returns a set including v, deduplicated. Fold deduping compares
// case-insensitively (handle facets).
func (s StringSet) With(v string, fold bool) StringSet {
	if fold {
		if s.containsFold(v) {
			return s
		}
	} else if s.Contains(v) {
		return s
	}
	out := make(StringSet, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

// Without returns a set excluding v. Callers must convert an empty result to
// a nil FacetValue before emitting it.
func (s StringSet) Without(v string, fold bool) StringSet {
	out := make(StringSet, 0, len(s))
	for _, e := range s {
		if (fold && strings.EqualFold(e, v)) || (!fold && e == v) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// NormalizeHandle strips one leading @ and surrounding whitespace from a
// lookalike/mention handle.
func NormalizeHandle(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "@")
}

// Hashtag is a set-of-struct member keyed by name.
type Hashtag struct {
	Name string `json:"name"`
}

type HashtagSet []Hashtag

func (h HashtagSet) Kind() FacetValueKind { return KindHashtagSet }
func (h HashtagSet) Empty() bool          { return len(h) == 0 }

func (h HashtagSet) With(tag Hashtag) HashtagSet {
	name := strings.TrimPrefix(strings.TrimSpace(tag.Name), "#")
	for _, e := range h {
		if strings.EqualFold(e.Name, name) {
			return h
		}
	}
	out := make(HashtagSet, len(h), len(h)+1)
	copy(out, h)
	return append(out, Hashtag{Name: name})
}

func (h HashtagSet) Without(name string) HashtagSet {
	out := make(HashtagSet, 0, len(h))
	for _, e := range h {
		if strings.EqualFold(e.Name, name) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// LanguageShare is an audience-language entry keyed by code, carrying the
// minimum audience percentage.
type LanguageShare struct {
	Code       string  `json:"code"`
	Percentage float64 `json:"percentage"`
}

type LanguageShareSet []LanguageShare

func (l LanguageShareSet) Kind() FacetValueKind { return KindLanguageShare }
func (l LanguageShareSet) Empty() bool          { return len(l) == 0 }

// With upserts by code, the set stays unique.
func (l LanguageShareSet) With(share LanguageShare) LanguageShareSet {
	out := make(LanguageShareSet, 0, len(l)+1)
	replaced := false
	for _, e := range l {
		if e.Code == share.Code {
			out = append(out, share)
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, share)
	}
	return out
}

func (l LanguageShareSet) Without(code string) LanguageShareSet {
	out := make(LanguageShareSet, 0, len(l))
	for _, e := range l {
		if e.Code == code {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Text is a scalar free-text value (bio phrase, caption keyword, single
// creator language code, audience source).
type Text string

func (t Text) Kind() FacetValueKind { return KindText }
func (t Text) Empty() bool          { return t == "" }

// Timestamp is a unix-seconds scalar (last post cutoff).
type Timestamp int64

func (t Timestamp) Kind() FacetValueKind { return KindTimestamp }
func (t Timestamp) Empty() bool          { return t == 0 }

// GeoPlace is an opaque location id with an audience weight; the label is
// resolved through the label cache, never stored in the snapshot.
type GeoPlace struct {
	Id     int64   `json:"id"`
	Weight float64 `json:"weight,omitempty"`
}

type GeoSet []GeoPlace

func (g GeoSet) Kind() FacetValueKind { return KindGeo }
func (g GeoSet) Empty() bool          { return len(g) == 0 }

// With upserts by id.
func (g GeoSet) With(place GeoPlace) GeoSet {
	out := make(GeoSet, 0, len(g)+1)
	replaced := false
	for _, e := range g {
		if e.Id == place.Id {
			out = append(out, place)
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, place)
	}
	return out
}

func (g GeoSet) Without(id int64) GeoSet {
	out := make(GeoSet, 0, len(g))
	for _, e := range g {
		if e.Id == id {
			continue
		}
		out = append(out, e)
	}
	return out
}

// NormalizeEmpty maps empty set values to nil so "removed the last entry"
// and "never set" are indistinguishable downstream. Weighted codes pass
// through untouched: the zero-weight sentinel is meaningful (see
// AnyWeightedCode).
func NormalizeEmpty(v FacetValue) FacetValue {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case KindWeightedCode:
		return v
	}
	if v.Empty() {
		return nil
	}
	return v
}
