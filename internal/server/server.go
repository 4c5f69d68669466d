// Package server exposes the HTTP API: story listing, perspective feeds,
// survey scoring and analysis backfill.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"newslens/internal/aggregator"
	"newslens/internal/config"
	"newslens/internal/logger"
	"newslens/internal/store"
)

// Runner abstracts the aggregation pipeline for the live-refresh and
// backfill endpoints.
type Runner interface {
	Run(ctx context.Context, opts aggregator.RunOptions) (*aggregator.RunResult, error)
	Backfill(ctx context.Context) (*aggregator.BackfillResult, error)
}

// Summarizer abstracts the text-synthesis service for the summarize
// endpoint. Satisfied by the llm client; nil disables the endpoint.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	store      *store.Store
	runner     Runner
	summarizer Summarizer
	config     config.Server
	log        *slog.Logger
}

// New creates a new HTTP server instance
func New(st *store.Store, runner Runner, summarizer Summarizer, cfg config.Server) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		store:      st,
		runner:     runner,
		summarizer: summarizer,
		config:     cfg,
		log:        logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Live refresh runs the full pipeline, so the budget is generous.
	s.router.Use(middleware.Timeout(120 * time.Second))

	if s.config.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/stories", s.handleStories)
		r.Get("/stories/{id}", s.handleGetStory)
		r.Get("/perspective", s.handlePerspective)
		r.Post("/survey", s.handleSurvey)
		r.Get("/survey/questions", s.handleSurveyQuestions)
		r.Get("/analysis/backfill", s.handleBackfill)
		r.Post("/summarize", s.handleSummarize)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		"addr", s.httpServer.Addr,
		"read_timeout", s.config.ReadTimeout,
		"write_timeout", s.config.WriteTimeout,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server gracefully...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}

// Router returns the chi router instance (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}
