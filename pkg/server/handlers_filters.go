package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/scoutly/creatorscout/pkg/common"
	"github.com/scoutly/creatorscout/pkg/coordinator"
	"github.com/scoutly/creatorscout/pkg/facets"
	"github.com/scoutly/creatorscout/pkg/session"
	"github.com/scoutly/creatorscout/pkg/suggest"
	"github.com/scoutly/creatorscout/pkg/types"
)

// filterState is the read model for the filter region: the canonical maps
// plus the resolved chip labels for every opaque selection.
type filterState struct {
	Applied   types.FilterSnapshot        `json:"applied"`
	Pending   types.PendingDelta          `json:"pending"`
	Display   types.FilterSnapshot        `json:"display"`
	State     coordinator.State           `json:"state"`
	OpenPanel types.FacetKey              `json:"openPanel,omitempty"`
	Chips     map[types.FacetKey][]string `json:"chips,omitempty"`
}

func (ws *WebServer) GetRegistry(w http.ResponseWriter, r *http.Request) {
	defaultHeaders(w, r)
	descriptors := make([]types.FacetDescriptor, 0, ws.Registry.Len())
	for _, key := range ws.Registry.Keys() {
		d, _ := ws.Registry.Get(key)
		descriptors = append(descriptors, d)
	}
	common.WriteJson(w, http.StatusOK, descriptors)
}

func (ws *WebServer) GetFilters(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	display := s.Coordinator.Display()
	return common.WriteJson(w, http.StatusOK, filterState{
		Applied:   s.Coordinator.Applied(),
		Pending:   s.Coordinator.Pending(),
		Display:   display,
		State:     s.Coordinator.State(),
		OpenPanel: s.Panels.Open(),
		Chips:     s.ResolveChips(display),
	})
}

func (ws *WebServer) controllerFromPath(r *http.Request, s *session.Session) (*facets.Controller, error) {
	key := types.FacetKey(r.PathValue("key"))
	c, ok := s.Controller(key)
	if !ok {
		return nil, fmt.Errorf("unknown facet %q", key)
	}
	return c, nil
}

// UpdateFacet takes a raw facet value (shaped per the facet's kind) and
// merges it into the pending delta. A null body clears the key.
func (ws *WebServer) UpdateFacet(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	c, err := ws.controllerFromPath(r, s)
	if err != nil {
		return err
	}
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decode facet value: %w", err)
	}
	value, err := types.DecodeValue(c.Descriptor().Kind, raw)
	if err != nil {
		return fmt.Errorf("facet %s: %w", c.Key(), err)
	}
	s.Coordinator.MergePartial(c.Key(), value)
	return ws.GetFilters(w, r, s)
}

func (ws *WebServer) ClearFacet(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	c, err := ws.controllerFromPath(r, s)
	if err != nil {
		return err
	}
	c.ClearFacet()
	return ws.GetFilters(w, r, s)
}

type inputRequest struct {
	Text string `json:"text"`
}

func (ws *WebServer) FacetInput(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	c, err := ws.controllerFromPath(r, s)
	if err != nil {
		return err
	}
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return err
	}
	c.OnInput(req.Text)
	return common.WriteJson(w, http.StatusAccepted, map[string]string{"draft": req.Text})
}

type suggestionList struct {
	Draft string           `json:"draft"`
	Items []suggestionJson `json:"items"`
	Error string           `json:"error,omitempty"`
}

type suggestionJson struct {
	Id    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Label string `json:"label"`
}

func (ws *WebServer) FacetSuggestions(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	c, err := ws.controllerFromPath(r, s)
	if err != nil {
		return err
	}
	items, fetchErr := c.Suggestions()
	out := suggestionList{
		Draft: c.Draft(),
		Items: make([]suggestionJson, 0, len(items)),
	}
	for _, item := range items {
		out.Items = append(out.Items, suggestionJson{Id: item.Id, Name: item.Name, Label: item.Label})
	}
	if fetchErr != nil {
		out.Error = fetchErr.Error()
	}
	return common.WriteJson(w, http.StatusOK, out)
}

type selectRequest struct {
	Id         string  `json:"id,omitempty"`
	Name       string  `json:"name,omitempty"`
	Label      string  `json:"label,omitempty"`
	Weight     float64 `json:"weight,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
}

func (ws *WebServer) FacetSelect(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	c, err := ws.controllerFromPath(r, s)
	if err != nil {
		return err
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return err
	}
	switch c.Descriptor().Kind {
	case types.KindGeo:
		if req.Weight > 0 {
			id, err := parseInt64(req.Id)
			if err != nil {
				return fmt.Errorf("facet %s: %w", c.Key(), err)
			}
			c.SelectGeo(id, req.Weight, req.Label)
			return ws.GetFilters(w, r, s)
		}
	case types.KindLanguageShare:
		if req.Percentage > 0 {
			code := req.Id
			if code == "" {
				code = req.Name
			}
			c.SelectLanguageShare(code, req.Percentage, req.Label)
			return ws.GetFilters(w, r, s)
		}
	}
	c.SelectSuggestion(suggestionFromRequest(req))
	return ws.GetFilters(w, r, s)
}

type removeRequest struct {
	Id string `json:"id"`
}

func (ws *WebServer) FacetRemove(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	c, err := ws.controllerFromPath(r, s)
	if err != nil {
		return err
	}
	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return err
	}
	c.Remove(req.Id)
	return ws.GetFilters(w, r, s)
}

func (ws *WebServer) GetPanel(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	return common.WriteJson(w, http.StatusOK, map[string]types.FacetKey{"open": s.Panels.Open()})
}

func (ws *WebServer) TogglePanel(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	key := types.FacetKey(r.PathValue("key"))
	if _, ok := s.Controller(key); !ok {
		return fmt.Errorf("unknown facet %q", key)
	}
	open := s.Panels.Toggle(key)
	return common.WriteJson(w, http.StatusOK, map[string]bool{"open": open})
}

func (ws *WebServer) ClosePanels(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	s.Panels.CloseAll()
	return common.WriteJson(w, http.StatusOK, map[string]bool{"open": false})
}

func (ws *WebServer) Apply(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	s.Coordinator.Apply()
	if ws.Tracking != nil {
		ws.Tracking.TrackApply(s.Id, s.Coordinator.Applied().Keys())
	}
	return ws.GetFilters(w, r, s)
}

func (ws *WebServer) Cancel(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	s.Coordinator.Cancel()
	return ws.GetFilters(w, r, s)
}

func (ws *WebServer) Clear(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	s.Coordinator.Clear()
	if ws.Tracking != nil {
		ws.Tracking.TrackClear(s.Id)
	}
	return ws.GetFilters(w, r, s)
}

func suggestionFromRequest(req selectRequest) suggest.Suggestion {
	return suggest.Suggestion{Id: req.Id, Name: req.Name, Label: req.Label}
}

func parseInt64(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
