package tracking

import (
	"net/http"

	"github.com/scoutly/creatorscout/pkg/types"
)

// Tracking publishes coordinator activity for downstream analytics. All
// implementations are fire-and-forget: a broken broker never blocks a
// search.
type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackApply(sessionId string, facetKeys []types.FacetKey)
	TrackClear(sessionId string)
	TrackSearch(sessionId string, query types.SearchQuery, totalCount int)
}
