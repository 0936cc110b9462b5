// Package server exposes the coordinator's consumer contract over HTTP. One
// session (sid cookie) maps to one coordinator assembly; every handler runs
// against the caller's own session.
package server

import (
	"net/http"

	"github.com/scoutly/creatorscout/pkg/common"
	"github.com/scoutly/creatorscout/pkg/registry"
	"github.com/scoutly/creatorscout/pkg/session"
	"github.com/scoutly/creatorscout/pkg/tracking"
	"github.com/scoutly/creatorscout/pkg/types"
)

type WebServer struct {
	Sessions *session.Manager
	Registry *registry.Registry
	Tracking tracking.Tracking
}

func NewWebServer(sessions *session.Manager, reg *registry.Registry, trk tracking.Tracking) *WebServer {
	ws := &WebServer{
		Sessions: sessions,
		Registry: reg,
		Tracking: trk,
	}
	sessions.OnCreate(func(s *session.Session, r *http.Request) {
		if trk == nil {
			return
		}
		trk.TrackSession(s.Id, r)
		id := s.Id
		s.Driver.OnResult(func(query types.SearchQuery, page *types.SearchPage) {
			trk.TrackSearch(id, query, page.TotalCount)
		})
	})
	return ws
}

// sessionHandler attaches the caller's session before running fn.
func (ws *WebServer) sessionHandler(fn func(w http.ResponseWriter, r *http.Request, s *session.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			common.RespondToOptions(w, r)
			return
		}
		defaultHeaders(w, r)
		s := ws.Sessions.Attach(w, r)
		if err := fn(w, r, s); err != nil {
			common.WriteJsonError(w, http.StatusBadRequest, err)
		}
	}
}

func (ws *WebServer) ClientHandler() *http.ServeMux {
	srv := http.NewServeMux()

	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.HandleFunc("GET /registry", ws.GetRegistry)

	srv.HandleFunc("GET /filters", ws.sessionHandler(ws.GetFilters))
	srv.HandleFunc("POST /facet/{key}", ws.sessionHandler(ws.UpdateFacet))
	srv.HandleFunc("DELETE /facet/{key}", ws.sessionHandler(ws.ClearFacet))
	srv.HandleFunc("POST /facet/{key}/input", ws.sessionHandler(ws.FacetInput))
	srv.HandleFunc("GET /facet/{key}/suggestions", ws.sessionHandler(ws.FacetSuggestions))
	srv.HandleFunc("POST /facet/{key}/select", ws.sessionHandler(ws.FacetSelect))
	srv.HandleFunc("POST /facet/{key}/remove", ws.sessionHandler(ws.FacetRemove))

	srv.HandleFunc("GET /panel", ws.sessionHandler(ws.GetPanel))
	srv.HandleFunc("POST /panel/close", ws.sessionHandler(ws.ClosePanels))
	srv.HandleFunc("POST /panel/{key}/toggle", ws.sessionHandler(ws.TogglePanel))

	srv.HandleFunc("POST /apply", ws.sessionHandler(ws.Apply))
	srv.HandleFunc("POST /cancel", ws.sessionHandler(ws.Cancel))
	srv.HandleFunc("POST /clear", ws.sessionHandler(ws.Clear))

	srv.HandleFunc("GET /results", ws.sessionHandler(ws.GetResults))
	srv.HandleFunc("POST /results/refresh", ws.sessionHandler(ws.RefreshResults))
	srv.HandleFunc("POST /sort", ws.sessionHandler(ws.SetSort))
	srv.HandleFunc("POST /page", ws.sessionHandler(ws.SetPage))
	srv.HandleFunc("POST /page-size", ws.sessionHandler(ws.SetPageSize))

	return srv
}
