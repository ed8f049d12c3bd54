// Package server exposes the buffer pipeline as an HTTP API.
//
// # Endpoints
//
//	POST /v1/buffer        buffer one geometry (JSON request, JSON response)
//	POST /v1/buffer/batch  buffer a GeoJSON FeatureCollection
//	GET  /healthz          liveness probe
//	GET  /version          build information
//
// Every response carries an X-Request-ID header. Errors are JSON objects of
// the form {"error": {"code": "...", "message": "..."}, "request_id": "..."}
// with the HTTP status derived from the error code.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/geobuffer/pkg/config"
	"github.com/matzehuels/geobuffer/pkg/pipeline"
)

// ShutdownTimeout bounds how long in-flight requests may run after the
// server context is cancelled.
const ShutdownTimeout = 10 * time.Second

// Server is the HTTP API.
type Server struct {
	cfg    config.Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server that buffers through runner. Buffer parameters a
// request leaves unset come from cfg.Buffer.
func New(cfg config.Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequestSize(s.cfg.Server.MaxBodyBytes))
		r.Post("/buffer", s.handleBuffer)
		r.Post("/buffer/batch", s.handleBatch)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Error:     errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed"},
			RequestID: RequestID(r.Context()),
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: s.cfg.Server.WriteTimeout.Duration,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
