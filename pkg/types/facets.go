package types

// FacetKey identifies one filter dimension.
type FacetKey string

const (
	FacetLocation          FacetKey = "location"
	FacetGender            FacetKey = "gender"
	FacetLanguage          FacetKey = "language"
	FacetAudienceLanguages FacetKey = "audience_languages"
	FacetAge               FacetKey = "age"
	FacetAudienceType      FacetKey = "audience_type"
	FacetEthnicity         FacetKey = "ethnicity"
	FacetFollowers         FacetKey = "followers"
	FacetEngagements       FacetKey = "engagements"
	FacetTrending          FacetKey = "trending"
	FacetReelsPlays        FacetKey = "reels_plays"
	FacetNiches            FacetKey = "niches"
	FacetTopics            FacetKey = "topics"
	FacetLookalikes        FacetKey = "lookalikes"
	FacetMentions          FacetKey = "mentions"
	FacetInterests         FacetKey = "interests"
	FacetBioPhrase         FacetKey = "bio_phrase"
	FacetPartnerships      FacetKey = "partnerships"
	FacetLastPost          FacetKey = "last_post"
	FacetAccountTypes      FacetKey = "account_types"
	FacetContacts          FacetKey = "contacts"
)

// FacetValueKind selects the value shape a facet carries.
type FacetValueKind string

const (
	KindRange         FacetValueKind = "range"
	KindWeightedCode  FacetValueKind = "weighted"
	KindStringSet     FacetValueKind = "strings"
	KindHashtagSet    FacetValueKind = "hashtags"
	KindLanguageShare FacetValueKind = "language_share"
	KindText          FacetValueKind = "text"
	KindTimestamp     FacetValueKind = "timestamp"
	KindGeo           FacetValueKind = "geo"
)

// FacetDescriptor is the static per-facet configuration that drives a
// controller uniformly instead of special-casing each widget.
type FacetDescriptor struct {
	Key            FacetKey       `json:"key" yaml:"key"`
	Kind           FacetValueKind `json:"kind" yaml:"kind"`
	Label          string         `json:"label" yaml:"label"`
	Async          bool           `json:"async,omitempty" yaml:"async"`
	MinQueryLength int            `json:"minQueryLength,omitempty" yaml:"minQueryLength"`
	DebounceMs     int            `json:"debounceMs,omitempty" yaml:"debounceMs"`
	SuggestPath    string         `json:"suggestPath,omitempty" yaml:"suggestPath"`
	// SingleValue facets evict the previous value when a new one is chosen.
	SingleValue bool `json:"singleValue,omitempty" yaml:"singleValue"`
	// HandleSet facets dedupe case-insensitively and strip a leading @.
	HandleSet bool `json:"handleSet,omitempty" yaml:"handleSet"`
}
