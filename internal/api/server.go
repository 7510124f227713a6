// internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	gatewayerrors "jobsearch-gateway/internal/common/errors"
	"jobsearch-gateway/internal/common/logger"
	"jobsearch-gateway/internal/search/controller"
	"jobsearch-gateway/internal/search/listing"
	"jobsearch-gateway/internal/search/state"
	"jobsearch-gateway/internal/search/vocab"
)

// LocationSource supplies the location facet options shown at session start.
type LocationSource interface {
	LocationOptions(ctx context.Context) ([]listing.LocationOption, error)
}

// ControllerFactory builds one fresh controller per session.
type ControllerFactory func() *controller.Controller

// Server is the HTTP surface hosting one search controller per session.
type Server struct {
	registry      *Registry
	locations     LocationSource
	newController ControllerFactory
	logger        logger.Logger
}

func NewServer(registry *Registry, locations LocationSource, factory ControllerFactory, log logger.Logger) *Server {
	return &Server{
		registry:      registry,
		locations:     locations,
		newController: factory,
		logger:        log.WithFields(map[string]interface{}{"component": "api-server"}),
	}
}

// Routes wires every endpoint onto a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleSnapshot)
	mux.HandleFunc("POST /sessions/{id}/text", s.handleText)
	mux.HandleFunc("POST /sessions/{id}/facets", s.handleFacets)
	mux.HandleFunc("POST /sessions/{id}/parse", s.handleParse)
	mux.HandleFunc("POST /sessions/{id}/page", s.handlePage)
	mux.HandleFunc("DELETE /sessions/{id}/filters", s.handleClearFilters)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

type createSessionResponse struct {
	SessionID       string                   `json:"sessionId"`
	LocationOptions []listing.LocationOption `json:"locationOptions"`
	Snapshot        controller.Snapshot      `json:"snapshot"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	locations, err := s.locations.LocationOptions(r.Context())
	if err != nil {
		// A session without location options still works; the facet panel
		// just starts empty.
		s.logger.Warn("location options unavailable at session start", map[string]interface{}{
			"error": err.Error(),
		})
		locations = []listing.LocationOption{}
	}

	ctrl := s.newController()
	session := s.registry.Add(ctrl, locations)
	ctrl.Refresh()

	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID:       session.ID,
		LocationOptions: locations,
		Snapshot:        ctrl.Snapshot(),
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Controller.Snapshot())
}

type textRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req textRequest
	if !decodeBody(w, r, &req) {
		return
	}
	// Debounced: the snapshot below reflects the state before the value
	// settles.
	session.Controller.SetSearchText(req.Value)
	writeJSON(w, http.StatusAccepted, session.Controller.Snapshot())
}

type locationRequest struct {
	Composite string `json:"composite,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
}

type facetRequest struct {
	Facet string `json:"facet,omitempty"`
	Value string `json:"value,omitempty"`

	SalarySet bool `json:"salarySet,omitempty"`
	SalaryMin *int `json:"salaryMin,omitempty"`
	SalaryMax *int `json:"salaryMax,omitempty"`

	Location *locationRequest `json:"location,omitempty"`

	AddSkill      *state.SkillRef `json:"addSkill,omitempty"`
	RemoveSkillID string          `json:"removeSkillId,omitempty"`
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req facetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctrl := session.Controller

	if req.Facet != "" {
		facet := vocab.Facet(req.Facet)
		if !vocab.Valid(facet, req.Value) {
			writeError(w, http.StatusBadRequest, "UNKNOWN_FACET_VALUE",
				"facet/value pair is not in the vocabulary")
			return
		}
		ctrl.SelectFacet(facet, req.Value)
	}

	if req.SalarySet {
		ctrl.SetSalaryRange(req.SalaryMin, req.SalaryMax)
	}

	if req.Location != nil {
		if req.Location.Composite != "" {
			ctrl.SetCompositeLocation(req.Location.Composite)
		} else {
			ctrl.SetLocationFields(req.Location.City, req.Location.State, req.Location.Country)
		}
	}

	if req.AddSkill != nil {
		ctrl.AddSkill(*req.AddSkill)
	}
	if req.RemoveSkillID != "" {
		ctrl.RemoveSkill(req.RemoveSkillID)
	}

	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

type parseRequest struct {
	Query string `json:"query"`
}

type parseResponse struct {
	Explanation string              `json:"explanation"`
	Snapshot    controller.Snapshot `json:"snapshot"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req parseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "EMPTY_QUERY", "query must not be empty")
		return
	}

	explanation, err := session.Controller.SubmitNaturalQuery(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, gatewayerrors.NewParseInFlightError()) {
			writeError(w, http.StatusConflict, string(gatewayerrors.ErrCodeParseInFlight),
				"a natural-language submission is already outstanding")
			return
		}
		// Parse failure: state is untouched, explanation describes the
		// failure, prior results remain on display.
		var stdErr *gatewayerrors.StandardError
		code := string(gatewayerrors.ErrCodeQueryParseFailed)
		if errors.As(err, &stdErr) {
			code = string(stdErr.Code)
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":       code,
			"explanation": explanation,
			"snapshot":    session.Controller.Snapshot(),
		})
		return
	}

	writeJSON(w, http.StatusOK, parseResponse{
		Explanation: explanation,
		Snapshot:    session.Controller.Snapshot(),
	})
}

type pageRequest struct {
	Page int `json:"page"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req pageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	session.Controller.SetPage(req.Page)
	writeJSON(w, http.StatusOK, session.Controller.Snapshot())
}

func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.Controller.ClearFilters()
	writeJSON(w, http.StatusOK, session.Controller.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.registry.Remove(id) {
		writeError(w, http.StatusNotFound, string(gatewayerrors.ErrCodeSessionNotFound),
			"no session with id "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the path's session id, answering 404 itself on a miss.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := r.PathValue("id")
	session, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, string(gatewayerrors.ErrCodeSessionNotFound),
			"no session with id "+id)
		return nil, false
	}
	return session, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"details": details,
	})
}
