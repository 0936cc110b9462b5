package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/scoutly/creatorscout/pkg/common"
	"github.com/scoutly/creatorscout/pkg/session"
	"github.com/scoutly/creatorscout/pkg/types"
)

// GetResults returns the current result view. Sort and pagination can be
// passed in the query string (?sort=followers&dir=desc&page=2&size=50) to
// adjust the view and search in one round trip.
func (ws *WebServer) GetResults(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	if len(r.URL.Query()) > 0 {
		pr, err := types.DecodePagedRequest(r)
		if err != nil {
			return fmt.Errorf("decode result query: %w", err)
		}
		s.Driver.SetView(pr.SortSpec, pr.PageSpec)
	}
	return common.WriteJson(w, http.StatusOK, s.Driver.View())
}

// RefreshResults re-issues the current query; used for the initial page
// load before any Apply.
func (ws *WebServer) RefreshResults(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	s.Driver.Refresh()
	return common.WriteJson(w, http.StatusAccepted, s.Driver.View())
}

func (ws *WebServer) SetSort(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	var sort types.SortSpec
	if err := json.NewDecoder(r.Body).Decode(&sort); err != nil {
		return fmt.Errorf("decode sort: %w", err)
	}
	s.Driver.SetSort(sort)
	return common.WriteJson(w, http.StatusAccepted, s.Driver.View())
}

type pageRequest struct {
	Page int `json:"page"`
}

func (ws *WebServer) SetPage(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return fmt.Errorf("decode page: %w", err)
	}
	s.Driver.SetPage(req.Page)
	return common.WriteJson(w, http.StatusAccepted, s.Driver.View())
}

type pageSizeRequest struct {
	PageSize int `json:"pageSize"`
}

func (ws *WebServer) SetPageSize(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	var req pageSizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return fmt.Errorf("decode page size: %w", err)
	}
	s.Driver.SetPageSize(req.PageSize)
	return common.WriteJson(w, http.StatusAccepted, s.Driver.View())
}
