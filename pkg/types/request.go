package types

import (
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"

	"github.com/gorilla/schema"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec is independent of the filter snapshot and survives Apply/Clear.
type SortSpec struct {
	Field     string        `json:"field" schema:"sort,default:followers"`
	Direction SortDirection `json:"direction" schema:"dir,default:desc"`
}

// PageSpec is 1-based. Any Apply, Clear or page-size change resets Page to 1.
type PageSpec struct {
	Page     int `json:"page" schema:"page,default:1"`
	PageSize int `json:"pageSize" schema:"size,default:20"`
}

// SearchQuery is the payload sent to the external search execution service.
type SearchQuery struct {
	Filters  FilterSnapshot `json:"filters"`
	Sort     SortSpec       `json:"sort"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// SearchPage is the external service's answer. Items are opaque rows, only
// pagination metadata is interpreted here.
type SearchPage struct {
	Items      []json.RawMessage `json:"items"`
	TotalCount int               `json:"totalCount"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(SortDirection(""), func(s string) reflect.Value {
		return reflect.ValueOf(SortDirection(s))
	})
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (p *PageSpec) Sanitize() {
	p.Page = clamp(p.Page, 1, 1000)
	p.PageSize = clamp(p.PageSize, 1, 100)
}

func (s *SortSpec) Sanitize() {
	if s.Field == "" {
		s.Field = "followers"
	}
	if s.Direction != SortAsc && s.Direction != SortDesc {
		s.Direction = SortDesc
	}
}

// PagedRequest carries sort and pagination from the query string.
type PagedRequest struct {
	SortSpec
	PageSpec
}

func DecodePagedRequest(r *http.Request) (*PagedRequest, error) {
	pr := &PagedRequest{
		SortSpec: SortSpec{Field: "followers", Direction: SortDesc},
		PageSpec: PageSpec{Page: 1, PageSize: 20},
	}
	err := decodePagedQuery(r.URL.Query(), pr)
	pr.SortSpec.Sanitize()
	pr.PageSpec.Sanitize()
	return pr, err
}

func decodePagedQuery(query url.Values, result *PagedRequest) error {
	return decoder.Decode(result, query)
}
