// Package server provides the HTTP API for the screener.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/screener/internal/backtest"
	"github.com/aristath/screener/internal/cache"
	"github.com/aristath/screener/internal/ratelimit"
	"github.com/aristath/screener/internal/screener"
)

// StatsSource exposes transport statistics for the health endpoint.
type StatsSource interface {
	Stats() (cache.Stats, ratelimit.Stats)
}

// Config holds server construction parameters.
type Config struct {
	Log        zerolog.Logger
	Screener   *screener.Screener
	Backtester *backtest.Backtester
	Store      *screener.ResultStore
	Stats      StatsSource
	Port       int
}

// Server is the HTTP API server.
type Server struct {
	router     *chi.Mux
	server     *http.Server
	log        zerolog.Logger
	screener   *screener.Screener
	backtester *backtest.Backtester
	store      *screener.ResultStore
	stats      StatsSource
	startTime  time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "server").Logger(),
		screener:   cfg.Screener,
		backtester: cfg.Backtester,
		store:      cfg.Store,
		stats:      cfg.Stats,
		startTime:  time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	// A full screening run fans out hundreds of API calls; the timeout has
	// to cover the slowest realistic run, not a single request.
	s.router.Use(middleware.Timeout(30 * time.Minute))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/screen", s.handleScreen)
		r.Post("/backtest", s.handleBacktest)
		r.Get("/runs/latest", s.handleLatestRun)
	})
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
