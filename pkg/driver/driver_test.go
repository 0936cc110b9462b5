package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/scoutly/creatorscout/pkg/types"
)

// gatedClient blocks each search until its release channel fires and ignores
// context cancellation, so a superseded request can complete late.
type gatedClient struct {
	mu       sync.Mutex
	calls    []types.SearchQuery
	releases []chan *types.SearchPage
}

func (c *gatedClient) Search(ctx context.Context, query types.SearchQuery) (*types.SearchPage, error) {
	c.mu.Lock()
	c.calls = append(c.calls, query)
	release := make(chan *types.SearchPage, 1)
	c.releases = append(c.releases, release)
	c.mu.Unlock()

	page := <-release
	if page == nil {
		return nil, errors.New("search backend unavailable")
	}
	return page, nil
}

func (c *gatedClient) waitCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		got := len(c.calls)
		c.mu.Unlock()
		if got >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d search calls", n)
}

func (c *gatedClient) release(i int, page *types.SearchPage) {
	c.mu.Lock()
	ch := c.releases[i]
	c.mu.Unlock()
	ch <- page
}

func pageOf(total int, names ...string) *types.SearchPage {
	items := make([]json.RawMessage, 0, len(names))
	for _, n := range names {
		items = append(items, json.RawMessage(fmt.Sprintf(`{"name":%q}`, n)))
	}
	return &types.SearchPage{Items: items, TotalCount: total}
}

func waitView(t *testing.T, d *Driver, cond func(View) bool) View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v := d.View()
		if cond(v) {
			return v
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("view condition not met, last: %+v", d.View())
	return View{}
}

func fp(v float64) *float64 { return &v }

func TestStaleResponseDiscarded(t *testing.T) {
	client := &gatedClient{}
	d := New(client)

	d.ApplySnapshot(types.FilterSnapshot{types.FacetFollowers: types.Range{Low: fp(1000)}})
	client.waitCalls(t, 1)
	d.ApplySnapshot(types.FilterSnapshot{types.FacetFollowers: types.Range{Low: fp(50000)}})
	client.waitCalls(t, 2)

	// The newer request completes first, then the old one trickles in.
	client.release(1, pageOf(2, "new-a", "new-b"))
	waitView(t, d, func(v View) bool { return v.TotalCount == 2 })
	client.release(0, pageOf(99, "old"))
	time.Sleep(50 * time.Millisecond)

	v := d.View()
	if v.TotalCount != 2 || len(v.Items) != 2 {
		t.Errorf("stale response overwrote current results: %+v", v)
	}
}

func TestApplyResetsPageAndAdvancesGeneration(t *testing.T) {
	client := &gatedClient{}
	d := New(client)

	d.SetPage(5)
	client.waitCalls(t, 1)
	client.release(0, pageOf(100, "a"))
	gen := d.Generation()

	d.ApplySnapshot(types.FilterSnapshot{types.FacetNiches: types.StringSet{"fitness"}})
	client.waitCalls(t, 2)

	if d.Generation() != gen+1 {
		t.Errorf("apply should advance the generation, got %d want %d", d.Generation(), gen+1)
	}
	client.mu.Lock()
	query := client.calls[1]
	client.mu.Unlock()
	if query.Page != 1 {
		t.Errorf("apply should reset to page 1, got %d", query.Page)
	}
	if _, ok := query.Filters[types.FacetNiches]; !ok {
		t.Error("applied snapshot missing from the query")
	}
	client.release(1, pageOf(10, "b"))
}

func TestSortAndPageSizeResetPage(t *testing.T) {
	client := &gatedClient{}
	d := New(client)

	d.SetPage(3)
	client.waitCalls(t, 1)
	d.SetSort(types.SortSpec{Field: "engagements", Direction: types.SortAsc})
	client.waitCalls(t, 2)

	client.mu.Lock()
	sortQuery := client.calls[1]
	client.mu.Unlock()
	if sortQuery.Page != 1 {
		t.Errorf("sort change should reset to page 1, got %d", sortQuery.Page)
	}
	if sortQuery.Sort.Field != "engagements" {
		t.Errorf("sort not forwarded: %+v", sortQuery.Sort)
	}

	d.SetPage(4)
	client.waitCalls(t, 3)
	d.SetPageSize(50)
	client.waitCalls(t, 4)
	client.mu.Lock()
	sizeQuery := client.calls[3]
	client.mu.Unlock()
	if sizeQuery.Page != 1 || sizeQuery.PageSize != 50 {
		t.Errorf("page size change should reset the page, got %+v", sizeQuery)
	}
	for i := 0; i < 4; i++ {
		client.release(i, pageOf(1, "x"))
	}
}

func TestErrorKeepsLastGoodResults(t *testing.T) {
	client := &gatedClient{}
	d := New(client)

	d.Refresh()
	client.waitCalls(t, 1)
	client.release(0, pageOf(3, "a", "b", "c"))
	waitView(t, d, func(v View) bool { return v.TotalCount == 3 })

	d.Refresh()
	client.waitCalls(t, 2)
	client.release(1, nil)
	v := waitView(t, d, func(v View) bool { return v.Error != "" })

	if len(v.Items) != 3 || v.TotalCount != 3 {
		t.Errorf("error should keep last-known-good results, got %+v", v)
	}

	// A later success clears the error.
	d.Refresh()
	client.waitCalls(t, 3)
	client.release(2, pageOf(1, "d"))
	v = waitView(t, d, func(v View) bool { return v.Error == "" && v.TotalCount == 1 })
	if len(v.Items) != 1 {
		t.Errorf("recovery result not applied: %+v", v)
	}
}

func TestOnResultObservesAcceptedPages(t *testing.T) {
	client := &gatedClient{}
	d := New(client)
	var mu sync.Mutex
	var seen []int
	d.OnResult(func(query types.SearchQuery, page *types.SearchPage) {
		mu.Lock()
		seen = append(seen, page.TotalCount)
		mu.Unlock()
	})

	d.Refresh()
	client.waitCalls(t, 1)
	d.Refresh()
	client.waitCalls(t, 2)
	client.release(1, pageOf(7, "a"))
	waitView(t, d, func(v View) bool { return v.TotalCount == 7 })
	client.release(0, pageOf(99, "stale"))
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != 7 {
		t.Errorf("listeners must only see accepted pages, got %v", seen)
	}
}

func TestEmptyViewHasNonNilItems(t *testing.T) {
	d := New(nil)
	if d.View().Items == nil {
		t.Error("view items should marshal as [] not null")
	}
}

func TestHTTPSearchClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var query types.SearchQuery
		if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if query.Page != 2 {
			t.Errorf("unexpected page %d", query.Page)
		}
		json.NewEncoder(w).Encode(types.SearchPage{TotalCount: 5, Page: 2, PageSize: 20})
	}))
	defer srv.Close()

	c := NewHTTPSearchClient(srv.URL)
	page, err := c.Search(context.Background(), types.SearchQuery{Page: 2, PageSize: 20})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 5 {
		t.Errorf("unexpected page %+v", page)
	}
}
