package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gridboard/pkg/charts"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/layout"
	"github.com/matzehuels/gridboard/pkg/store"
)

type tabsResponse struct {
	Active string          `json:"active"`
	Tabs   []store.TabInfo `json:"tabs"`
}

type setActiveRequest struct {
	TabID string `json:"tabId"`
}

type addChartRequest struct {
	ChartType string         `json:"chartType"`
	Layouts   layout.Layouts `json:"layouts"`
}

type addChartResponse struct {
	ID string `json:"id"`
}

type optionResponse struct {
	Type   charts.Type   `json:"type"`
	Option charts.Option `json:"option"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Check(); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "integrity check failed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTabs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tabsResponse{Active: s.store.ActiveTab(), Tabs: s.store.Tabs()})
}

func (s *Server) setActiveTab(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.store.SetActiveTab(r.Context(), req.TabID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) getLayouts(w http.ResponseWriter, r *http.Request) {
	if tab := r.URL.Query().Get("tab"); tab != "" {
		snap, err := s.store.TabSnapshot(tab)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) putLayouts(w http.ResponseWriter, r *http.Request) {
	var incoming layout.Layouts
	if !decodeBody(w, r, &incoming) {
		return
	}
	report, err := s.store.UpdateLayouts(r.Context(), incoming)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) addChart(w http.ResponseWriter, r *http.Request) {
	var req addChartRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := s.store.AddChart(r.Context(), req.ChartType, req.Layouts)
	if err != nil {
		writeError(w, err)
		return
	}
	if !s.registry.Known(req.ChartType) {
		s.logger.Warn("Unknown chart type, rendering as default",
			"type", req.ChartType, "id", id, "suggestions", s.registry.Suggest(req.ChartType))
	}
	writeJSON(w, http.StatusCreated, addChartResponse{ID: id})
}

func (s *Server) deleteChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := s.store.DeleteChart(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		writeError(w, errors.New(errors.ErrCodeChartNotFound, "chart %q does not exist on tab %q", id, s.store.ActiveTab()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) chartOption(w http.ResponseWriter, r *http.Request) {
	tag, err := s.store.ChartType(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeOption(w, tag)
}

func (s *Server) chartTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"default": charts.Default, "types": s.registry.Types()})
}

func (s *Server) typeOption(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "type")
	if err := errors.ValidateChartType(tag); err != nil {
		writeError(w, err)
		return
	}
	s.writeOption(w, tag)
}

func (s *Server) writeOption(w http.ResponseWriter, tag string) {
	writeJSON(w, http.StatusOK, optionResponse{Type: s.registry.Resolve(tag), Option: s.registry.Lookup(tag)})
}

// =============================================================================
// Encoding
// =============================================================================

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "decode request body: %v", err))
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, errors.ErrCodeStorage), errors.Is(err, errors.ErrCodeNetwork):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorBody{Code: code, Message: errors.UserMessage(err)})
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
