package suggest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPFetcherForwardsQueryAndPlatform(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/suggest/locations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "lond" {
			t.Errorf("unexpected query %q", got)
		}
		if got := r.URL.Query().Get("platform"); got != "instagram" {
			t.Errorf("unexpected platform %q", got)
		}
		w.Write([]byte(`[{"id":"42","name":"London","label":"London, UK"}]`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPFetcherOptions{BaseURL: srv.URL, Platform: "instagram"})
	items, err := f.Suggest(context.Background(), "/suggest/locations", "lond")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "London" {
		t.Errorf("unexpected items %#v", items)
	}
	if items[0].Value() != "42" {
		t.Errorf("value should prefer the id, got %q", items[0].Value())
	}
}

func TestHTTPFetcherRejectsEmptyQuery(t *testing.T) {
	f := NewHTTPFetcher(HTTPFetcherOptions{BaseURL: "http://localhost:0"})
	if _, err := f.Suggest(context.Background(), "/suggest/topics", ""); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestHTTPFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPFetcherOptions{BaseURL: srv.URL})
	if _, err := f.Suggest(context.Background(), "/suggest/topics", "fit"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestHTTPFetcherHonoursContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	f := NewHTTPFetcher(HTTPFetcherOptions{BaseURL: srv.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Suggest(ctx, "/suggest/topics", "fit"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
