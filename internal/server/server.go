// Package server exposes the journey pipeline and store over HTTP.
//
// Routes:
//
//	POST   /api/journeys/generate      run the full pipeline
//	POST   /api/journeys/requirements  extract counts from a description
//	POST   /api/journeys/validate      check nodes against requirements
//	POST   /api/journeys/repair        repair and normalize nodes
//	POST   /api/journeys/layout        tree layout from current connections
//	GET    /api/journeys               list stored keys
//	GET    /api/journeys/{key}         load a stored journey
//	PUT    /api/journeys/{key}         store a journey
//	DELETE /api/journeys/{key}         delete a stored journey
//	GET    /healthz
//	GET    /metrics
//
// Errors are JSON objects with a code and a message.
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/journey/pkg/config"
	"github.com/matzehuels/journey/pkg/pipeline"
	"github.com/matzehuels/journey/pkg/store"
)

// Server serves the journey API.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	cfg     config.Config
	logger  *log.Logger
	metrics http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and pipeline logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics replaces the /metrics handler.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// New creates a server. The runner's store is used for the key routes;
// without one those routes answer 501.
func New(runner *pipeline.Runner, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		store:   runner.Store,
		cfg:     cfg,
		metrics: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.Route("/api/journeys", func(r chi.Router) {
		r.Use(limitBody(s.cfg.Server.MaxBodyBytes))

		r.Post("/generate", s.generate)
		r.Post("/requirements", s.requirements)
		r.Post("/validate", s.validate)
		r.Post("/repair", s.repair)
		r.Post("/layout", s.layout)

		r.Get("/", s.list)
		r.Get("/{key}", s.get)
		r.Put("/{key}", s.put)
		r.Delete("/{key}", s.delete)
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != http.ErrServerClosed {
		return err
	}
	return nil
}
