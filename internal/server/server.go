package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-slicerform/pkg/orchestrator"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// DefaultRestPath is used by /openapi when the request names none.
const DefaultRestPath = "slicer_cli_web/cli"

// maxBodyBytes caps uploaded CLI descriptions.
const maxBodyBytes = 4 << 20

// Server is the preview and validation HTTP service.
type Server struct {
	router       chi.Router
	logger       *slog.Logger
	startTime    time.Time
	orchestrator *orchestrator.Orchestrator
	metrics      *Metrics
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithOrchestrator replaces the default document pipeline.
func WithOrchestrator(o *orchestrator.Orchestrator) Option {
	return func(s *Server) {
		s.orchestrator = o
	}
}

// WithMetrics installs Prometheus collectors. A nil value disables /metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new Server with all routes registered.
func New(logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		startTime: time.Now(),
		metrics:   NewMetrics("slicerform"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.orchestrator == nil {
		s.orchestrator = orchestrator.New(orchestrator.WithLogger(logger))
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger, s.metrics))

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/validate", s.handleValidate)
		r.Post("/openapi", s.handleOpenAPI)
		r.Post("/lint", s.handleLint)
	})
}
