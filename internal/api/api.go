// Package api serves the analysis engine over HTTP for CI jobs and the
// browser extension.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/citrigger"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
)

const (
	maxBodyBytes    = 10 << 20
	shutdownTimeout = 5 * time.Second
)

// TriggerFactory builds the CI trigger used for a request.
type TriggerFactory func(cfg *contract.Config) (contract.CITrigger, error)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	baseCfg    *contract.Config
	mgr        contract.CacheManager
	newTrigger TriggerFactory
}

// Option customizes a Server.
type Option func(*Server)

// WithTriggerFactory replaces the CI trigger construction.
func WithTriggerFactory(f TriggerFactory) Option {
	return func(s *Server) { s.newTrigger = f }
}

// NewServer creates a server around the validated base configuration.
func NewServer(baseCfg *contract.Config, mgr contract.CacheManager, opts ...Option) *Server {
	s := &Server{
		baseCfg: baseCfg,
		mgr:     mgr,
		newTrigger: func(cfg *contract.Config) (contract.CITrigger, error) {
			// The response already carries the request, so dry runs print nothing.
			return citrigger.New(cfg, io.Discard)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the router with middleware and every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if len(s.baseCfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.baseCfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/languages", s.handleLanguages)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/templates", s.handleTemplate)
		r.Post("/trigger", s.handleTrigger)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.baseCfg.ServeAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		contract.Logger.Info("Serving HTTP API", "addr", s.baseCfg.ServeAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
