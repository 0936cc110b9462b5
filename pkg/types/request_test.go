package types

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func mustRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestSortSpecSanitize(t *testing.T) {
	s := SortSpec{}
	s.Sanitize()
	if s.Field != "followers" || s.Direction != SortDesc {
		t.Errorf("unexpected defaults %+v", s)
	}
	s = SortSpec{Field: "engagements", Direction: "sideways"}
	s.Sanitize()
	if s.Direction != SortDesc {
		t.Errorf("invalid direction should fall back to desc, got %q", s.Direction)
	}
}

func TestPageSpecSanitize(t *testing.T) {
	p := PageSpec{Page: -3, PageSize: 0}
	p.Sanitize()
	if p.Page != 1 || p.PageSize != 1 {
		t.Errorf("unexpected clamp %+v", p)
	}
}
