// Package registry holds the static facet descriptors that drive every
// controller uniformly. Deployments can tune debounce and query-length
// settings from a YAML file without recompiling.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scoutly/creatorscout/pkg/types"
)

const (
	defaultDebounceMs = 300
	slowDebounceMs    = 500
)

// Default returns the built-in descriptor set for all facets, keyed for
// stable iteration by the caller.
func Default() []types.FacetDescriptor {
	return []types.FacetDescriptor{
		{Key: types.FacetLocation, Kind: types.KindGeo, Label: "Location", Async: true, MinQueryLength: 2, DebounceMs: defaultDebounceMs, SuggestPath: "/suggest/locations"},
		{Key: types.FacetGender, Kind: types.KindWeightedCode, Label: "Gender"},
		{Key: types.FacetLanguage, Kind: types.KindText, Label: "Language", Async: true, MinQueryLength: 1, DebounceMs: defaultDebounceMs, SuggestPath: "/suggest/languages", SingleValue: true},
		{Key: types.FacetAudienceLanguages, Kind: types.KindLanguageShare, Label: "Audience Languages", Async: true, MinQueryLength: 1, DebounceMs: defaultDebounceMs, SuggestPath: "/suggest/languages"},
		{Key: types.FacetAge, Kind: types.KindRange, Label: "Age"},
		{Key: types.FacetAudienceType, Kind: types.KindText, Label: "Audience Type", SingleValue: true},
		{Key: types.FacetEthnicity, Kind: types.KindWeightedCode, Label: "Ethnicity"},
		{Key: types.FacetFollowers, Kind: types.KindRange, Label: "Followers"},
		{Key: types.FacetEngagements, Kind: types.KindRange, Label: "Engagements"},
		{Key: types.FacetTrending, Kind: types.KindHashtagSet, Label: "Trending Hashtags", Async: true, MinQueryLength: 2, DebounceMs: slowDebounceMs, SuggestPath: "/suggest/hashtags"},
		{Key: types.FacetReelsPlays, Kind: types.KindRange, Label: "Reels Plays"},
		{Key: types.FacetNiches, Kind: types.KindStringSet, Label: "Niches", Async: true, MinQueryLength: 2, DebounceMs: slowDebounceMs, SuggestPath: "/suggest/niches"},
		{Key: types.FacetTopics, Kind: types.KindStringSet, Label: "Topics", Async: true, MinQueryLength: 2, DebounceMs: slowDebounceMs, SuggestPath: "/suggest/topics"},
		{Key: types.FacetLookalikes, Kind: types.KindStringSet, Label: "Lookalikes", Async: true, MinQueryLength: 2, DebounceMs: slowDebounceMs, SuggestPath: "/suggest/handles", HandleSet: true},
		{Key: types.FacetMentions, Kind: types.KindStringSet, Label: "Mentions", Async: true, MinQueryLength: 2, DebounceMs: slowDebounceMs, SuggestPath: "/suggest/handles", HandleSet: true},
		{Key: types.FacetInterests, Kind: types.KindStringSet, Label: "Interests", Async: true, MinQueryLength: 2, DebounceMs: defaultDebounceMs, SuggestPath: "/suggest/interests"},
		{Key: types.FacetBioPhrase, Kind: types.KindText, Label: "Caption Keyword", Async: true, MinQueryLength: 3, DebounceMs: slowDebounceMs, SuggestPath: "/suggest/keywords", SingleValue: true},
		{Key: types.FacetPartnerships, Kind: types.KindStringSet, Label: "Partnerships", Async: true, MinQueryLength: 2, DebounceMs: slowDebounceMs, SuggestPath: "/suggest/handles", HandleSet: true},
		{Key: types.FacetLastPost, Kind: types.KindTimestamp, Label: "Last Post"},
		{Key: types.FacetAccountTypes, Kind: types.KindStringSet, Label: "Account Type"},
		{Key: types.FacetContacts, Kind: types.KindStringSet, Label: "Contacts", Async: true, MinQueryLength: 1, DebounceMs: defaultDebounceMs, SuggestPath: "/suggest/contact-types"},
	}
}

// Registry is an immutable lookup of facet descriptors.
type Registry struct {
	byKey map[types.FacetKey]types.FacetDescriptor
	order []types.FacetKey
}

func New(descriptors []types.FacetDescriptor) (*Registry, error) {
	r := &Registry{
		byKey: make(map[types.FacetKey]types.FacetDescriptor, len(descriptors)),
		order: make([]types.FacetKey, 0, len(descriptors)),
	}
	for _, d := range descriptors {
		if d.Key == "" {
			return nil, fmt.Errorf("facet descriptor without key")
		}
		if d.Kind == "" {
			return nil, fmt.Errorf("facet %q has no value kind", d.Key)
		}
		if _, dup := r.byKey[d.Key]; dup {
			return nil, fmt.Errorf("duplicate facet descriptor %q", d.Key)
		}
		if d.Async && d.SuggestPath == "" {
			return nil, fmt.Errorf("async facet %q has no suggest path", d.Key)
		}
		if d.Async && d.DebounceMs <= 0 {
			d.DebounceMs = defaultDebounceMs
		}
		r.byKey[d.Key] = d
		r.order = append(r.order, d.Key)
	}
	return r, nil
}

func MustDefault() *Registry {
	r, err := New(Default())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Get(key types.FacetKey) (types.FacetDescriptor, bool) {
	d, ok := r.byKey[key]
	return d, ok
}

// Keys returns facet keys in declaration order.
func (r *Registry) Keys() []types.FacetKey {
	out := make([]types.FacetKey, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int { return len(r.order) }

type overrideFile struct {
	Facets []facetOverride `yaml:"facets"`
}

type facetOverride struct {
	Key            types.FacetKey `yaml:"key"`
	MinQueryLength *int           `yaml:"minQueryLength"`
	DebounceMs     *int           `yaml:"debounceMs"`
	SuggestPath    *string        `yaml:"suggestPath"`
}

// LoadFile applies tuning overrides from a YAML file on top of the built-in
// descriptors. Only timing/path fields can be overridden; value kinds and
// facet identity are fixed in code.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse facet overrides: %w", err)
	}
	descriptors := Default()
	for _, o := range file.Facets {
		found := false
		for i := range descriptors {
			if descriptors[i].Key != o.Key {
				continue
			}
			found = true
			if o.MinQueryLength != nil {
				descriptors[i].MinQueryLength = *o.MinQueryLength
			}
			if o.DebounceMs != nil {
				descriptors[i].DebounceMs = *o.DebounceMs
			}
			if o.SuggestPath != nil {
				descriptors[i].SuggestPath = *o.SuggestPath
			}
		}
		if !found {
			return nil, fmt.Errorf("override for unknown facet %q", o.Key)
		}
	}
	return New(descriptors)
}
