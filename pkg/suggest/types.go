// Package suggest provides the per-facet remote autocomplete plumbing: a
// fetcher boundary to the remote suggestion endpoints and the debounce/
// sequence discipline that keeps stale responses from overwriting a newer
// draft's list.
package suggest

import "context"

// Suggestion is one remote autocomplete entry. Id carries opaque
// identifiers (location ids, language codes, contact-type ids); Name carries
// plain values (hashtags, handles, keywords). Either may be empty depending
// on the endpoint.
type Suggestion struct {
	Id    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Label string `json:"label"`
}

// Value returns the selectable identifier, preferring Id over Name.
func (s Suggestion) Value() string {
	if s.Id != "" {
		return s.Id
	}
	return s.Name
}

// Fetcher looks up suggestions for one facet. Implementations must respect
// ctx cancellation; the caller cancels superseded fetches.
type Fetcher interface {
	Suggest(ctx context.Context, path string, query string) ([]Suggestion, error)
}
