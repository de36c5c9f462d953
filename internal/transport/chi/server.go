// Package chi is the HTTP transport: route registration, request
// decoding, scope extraction, and domain-error to status mapping.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/search"
)

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	search GlobalSearch
	syncer Syncer
	runs   RunsReader
	events EventPublisher
	pinger Pinger
	logger *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(
	globalSearch GlobalSearch,
	syncer Syncer,
	runs RunsReader,
	events EventPublisher,
	pinger Pinger,
	logger *zap.Logger,
) *Server {
	return &Server{
		search: globalSearch,
		syncer: syncer,
		runs:   runs,
		events: events,
		pinger: pinger,
		logger: logger,
	}
}

// Routes registers all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.Search)
		r.Get("/suggest", s.Suggest)
		r.Post("/sync", s.Sync)
		r.Get("/sync/status", s.SyncStatus)
		r.Post("/events", s.PublishEvent)
	})
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := s.searchRequest(w, r)
	if !ok {
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Suggest handles GET /api/v1/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	req, ok := s.searchRequest(w, r)
	if !ok {
		return
	}

	suggestions, err := s.search.Suggest(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Suggestion{"suggestions": suggestions})
}

// searchRequest decodes the shared query parameters of search and suggest.
func (s *Server) searchRequest(w http.ResponseWriter, r *http.Request) (search.Request, bool) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "query parameter q is required")
		return search.Request{}, false
	}

	req := search.Request{
		Query:    q,
		Kinds:    splitParam(r.URL.Query().Get("kinds")),
		TenantID: r.URL.Query().Get("tenantId"),
		Scope:    ScopeFromContext(r.Context()),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "limit must be a positive integer")
			return search.Request{}, false
		}
		req.Limit = limit
	}
	return req, true
}

type syncRequest struct {
	Kinds    []string `json:"kinds"`
	TenantID string   `json:"tenantId"`
}

// Sync handles POST /api/v1/sync. Admin only: a tenant-scoped caller must
// not rebuild indexes it does not own.
func (s *Server) Sync(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	if !scope.Unrestricted() {
		writeError(w, http.StatusForbidden, "forbidden", "bulk sync requires administrative access")
		return
	}

	var req syncRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
			return
		}
	}

	report, err := s.syncer.BulkSync(r.Context(), req.Kinds, req.TenantID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// SyncStatus handles GET /api/v1/sync/status.
func (s *Server) SyncStatus(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.LastRuns(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lastRuns": runs})
}

// PublishEvent handles POST /api/v1/events. The event is queued and
// processed asynchronously, hence 202.
func (s *Server) PublishEvent(w http.ResponseWriter, r *http.Request) {
	var event domain.IndexEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if _, err := domain.ParseOperation(string(event.Op)); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if _, err := domain.ParseKind(event.Kind); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if event.ExternalID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "externalId is required")
		return
	}

	if err := s.events.Publish(r.Context(), event); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"redis": "ok"}
	status := "healthy"
	httpStatus := http.StatusOK

	if err := s.pinger.Ping(r.Context()); err != nil {
		checks["redis"] = "fail"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrScopeRequired):
		writeError(w, http.StatusForbidden, "scope_required", domain.ErrScopeRequired.Error())
	case errors.Is(err, domain.ErrSyncInProgress):
		writeError(w, http.StatusConflict, "sync_in_progress", domain.ErrSyncInProgress.Error())
	case errors.Is(err, domain.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", domain.ErrNotFound.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
