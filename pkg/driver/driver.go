// Package driver serializes the applied filter snapshot, sort and
// pagination into remote search requests. Each request carries a generation
// number; a response whose generation is no longer current is dropped
// silently, so the visible result set always reflects the most recent
// apply/sort/page state regardless of network completion order.
package driver

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/scoutly/creatorscout/pkg/types"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorscout_searches_total",
		Help: "The total number of issued search requests",
	})
	noSearchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorscout_search_errors_total",
		Help: "The total number of failed search requests",
	})
	noStaleDiscards = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creatorscout_search_stale_discards_total",
		Help: "The total number of search responses discarded as stale",
	})
)

const searchTimeout = 10 * time.Second

// SearchClient is the boundary to the external search execution service.
type SearchClient interface {
	Search(ctx context.Context, query types.SearchQuery) (*types.SearchPage, error)
}

// ResultFunc observes every accepted (non-stale, non-failed) result.
type ResultFunc func(query types.SearchQuery, page *types.SearchPage)

type Driver struct {
	mu      sync.Mutex
	client  SearchClient
	gen     uint64
	cancel  context.CancelFunc
	filters types.FilterSnapshot
	sort    types.SortSpec
	page    types.PageSpec

	items    []json.RawMessage
	total    int
	loading  bool
	lastErr  error
	onResult []ResultFunc
}

func New(client SearchClient) *Driver {
	return &Driver{
		client:  client,
		filters: types.FilterSnapshot{},
		sort:    types.SortSpec{Field: "followers", Direction: types.SortDesc},
		page:    types.PageSpec{Page: 1, PageSize: 20},
	}
}

func (d *Driver) OnResult(fn ResultFunc) {
	d.onResult = append(d.onResult, fn)
}

// ApplySnapshot takes a freshly applied filter snapshot. Page resets to 1;
// sort survives.
func (d *Driver) ApplySnapshot(snapshot types.FilterSnapshot) {
	d.mu.Lock()
	d.filters = snapshot
	d.page.Page = 1
	d.launchLocked()
	d.mu.Unlock()
}

func (d *Driver) SetSort(sort types.SortSpec) {
	sort.Sanitize()
	d.mu.Lock()
	d.sort = sort
	d.page.Page = 1
	d.launchLocked()
	d.mu.Unlock()
}

func (d *Driver) SetPage(page int) {
	d.mu.Lock()
	d.page.Page = page
	d.page.Sanitize()
	d.launchLocked()
	d.mu.Unlock()
}

// SetPageSize changes the page size and resets to the first page.
func (d *Driver) SetPageSize(size int) {
	d.mu.Lock()
	d.page.PageSize = size
	d.page.Page = 1
	d.page.Sanitize()
	d.launchLocked()
	d.mu.Unlock()
}

// SetView applies sort and pagination together with a single request, for
// callers that pass both in one query string.
func (d *Driver) SetView(sort types.SortSpec, page types.PageSpec) {
	sort.Sanitize()
	page.Sanitize()
	d.mu.Lock()
	d.sort = sort
	d.page = page
	d.launchLocked()
	d.mu.Unlock()
}

// Refresh re-issues the current query (initial load).
func (d *Driver) Refresh() {
	d.mu.Lock()
	d.launchLocked()
	d.mu.Unlock()
}

// launchLocked supersedes any in-flight request: the generation advances and
// the previous request's context is cancelled. Callers hold d.mu.
func (d *Driver) launchLocked() {
	if d.client == nil {
		return
	}
	d.gen++
	gen := d.gen
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	d.cancel = cancel
	d.loading = true
	query := types.SearchQuery{
		Filters:  d.filters.Clone(),
		Sort:     d.sort,
		Page:     d.page.Page,
		PageSize: d.page.PageSize,
	}
	noSearches.Inc()
	go d.run(ctx, gen, query)
}

func (d *Driver) run(ctx context.Context, gen uint64, query types.SearchQuery) {
	page, err := d.client.Search(ctx, query)

	d.mu.Lock()
	if gen != d.gen {
		// A newer apply/sort/page superseded this request.
		noStaleDiscards.Inc()
		d.mu.Unlock()
		return
	}
	d.loading = false
	if err != nil {
		// Keep the last-known-good result list; stale-but-visible beats
		// blank.
		noSearchErrors.Inc()
		log.Printf("search failed (gen %d): %v", gen, err)
		d.lastErr = err
		d.mu.Unlock()
		return
	}
	d.items = page.Items
	d.total = page.TotalCount
	d.lastErr = nil
	listeners := d.onResult
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(query, page)
	}
}

// View is the pager-facing read model.
type View struct {
	Items      []json.RawMessage `json:"items"`
	TotalCount int               `json:"totalCount"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	Sort       types.SortSpec    `json:"sort"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
	Generation uint64            `json:"generation"`
}

func (d *Driver) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := View{
		Items:      d.items,
		TotalCount: d.total,
		Page:       d.page.Page,
		PageSize:   d.page.PageSize,
		Sort:       d.sort,
		Loading:    d.loading,
		Generation: d.gen,
	}
	if d.lastErr != nil {
		v.Error = d.lastErr.Error()
	}
	if v.Items == nil {
		v.Items = []json.RawMessage{}
	}
	return v
}

// Generation exposes the current counter, mainly for tests and tracking.
func (d *Driver) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}
