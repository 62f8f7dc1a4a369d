// Package httpapi exposes the question answering pipeline over HTTP. The API
// is a single POST route plus the static front-end files; responses use an
// ok/data envelope and errors carry a detail string.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// QueryService answers a user question against the indexed collection.
type QueryService interface {
	Answer(ctx context.Context, query string, k int) (domain.Answer, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	query         QueryService
	staticDir     string
	checks        map[string]domain.HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. staticDir is the directory holding
// the front-end files; it must contain index.html.
func NewServer(query QueryService, staticDir string, logger *zap.Logger) *Server {
	s := &Server{
		query:     query,
		staticDir: staticDir,
		checks:    make(map[string]domain.HealthChecker),
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, "query cannot be empty"),
	}
	return s
}

// WithHealthCheck registers a named dependency probe for the health route.
func (s *Server) WithHealthCheck(name string, check domain.HealthChecker) *Server {
	s.checks[name] = check
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/query", s.Query)
	r.Get("/healthz", s.Health)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/", s.Index)
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(s.staticDir))))
}

type queryRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type dataResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

type errorResponse struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// Query handles POST /api/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	// Validated here so that a blank query never reaches the pipeline.
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query cannot be empty")
		return
	}

	ans, err := s.query.Answer(r.Context(), req.Query, req.K)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{OK: true, Data: ans})
}

// Index handles GET / with the front-end entry point.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

// Health handles GET /healthz. Any failing dependency makes the whole
// service unhealthy.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK
	results := make(map[string]string, len(s.checks))

	for name, check := range s.checks {
		if err := check.HealthCheck(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			results[name] = "unhealthy"
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
			continue
		}
		results[name] = "healthy"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": results,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	// The pipeline is the error boundary: whatever bubbles up here is an
	// upstream failure and its message is the response detail.
	s.logger.Error("query failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func sentinelHandler(sentinel error, status int, detail string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, detail)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{OK: false, Detail: detail})
}
