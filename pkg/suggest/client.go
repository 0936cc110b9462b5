package suggest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noSuggestFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorscout_suggest_fetches_total",
		Help: "The total number of remote suggestion fetches",
	})
	noSuggestErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorscout_suggest_errors_total",
		Help: "The total number of failed remote suggestion fetches",
	})
)

const defaultFetchTimeout = 4 * time.Second

// HTTPFetcher queries the remote suggestion endpoints. One instance is
// shared by all facets; the facet picks the path.
type HTTPFetcher struct {
	baseURL  string
	platform string
	client   *http.Client
}

type HTTPFetcherOptions struct {
	BaseURL string
	// Platform is forwarded to endpoints that scope suggestions per network
	// (hashtags, handles). Empty means no scoping.
	Platform string
	Timeout  time.Duration
}

func NewHTTPFetcher(opts HTTPFetcherOptions) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPFetcher{
		baseURL:  opts.BaseURL,
		platform: opts.Platform,
		client:   &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Suggest(ctx context.Context, path string, query string) ([]Suggestion, error) {
	if query == "" {
		return nil, fmt.Errorf("empty suggestion query")
	}
	q := url.Values{}
	q.Set("q", query)
	if f.platform != "" {
		q.Set("platform", f.platform)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	noSuggestFetches.Inc()
	resp, err := f.client.Do(req)
	if err != nil {
		noSuggestErrors.Inc()
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		noSuggestErrors.Inc()
		return nil, fmt.Errorf("suggest %s: status %d", path, resp.StatusCode)
	}
	var items []Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		noSuggestErrors.Inc()
		return nil, err
	}
	return items, nil
}
