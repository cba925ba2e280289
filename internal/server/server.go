// Package server implements the grasp HTTP API.
//
// The API exposes the same operations as the CLI over HTTP so that fact
// files can be cleaned, split, and inspected without a local install:
//
//	POST /v1/clean  - fact text in, canonical fact text out
//	POST /v1/split  - fact text in, JSON array of per-component fact text out
//	POST /v1/info   - fact text in, JSON graph statistics out
//	GET  /healthz   - liveness probe
//
// Requests carry fact text as the body; read and write options travel as
// query parameters (edge_predicate, target_edge_predicate, strict).
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/grasplabs/grasp/pkg/pipeline"
)

// MaxBodyBytes caps the accepted request body size (16 MiB).
const MaxBodyBytes = 16 << 20

// Server handles HTTP requests for the fact pipeline.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around a pipeline runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/clean", s.handleClean)
		r.Post("/split", s.handleSplit)
		r.Post("/info", s.handleInfo)
	})
	return r
}

// requestIDKey is the context key for the per-request UUID.
type requestIDKey struct{}

// requestID assigns each request a UUID, echoed in the X-Request-ID header
// and attached to log lines and error responses.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := contextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", requestIDFrom(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
