// Package server provides the HTTP server and routing for publishtimer.
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

	"github.com/crowdfire/publishtimer/internal/eventstore"
	"github.com/crowdfire/publishtimer/internal/queue"
	"github.com/crowdfire/publishtimer/internal/schedule"
)

// ScheduleRunner is the subset of the schedule service the handlers drive.
type ScheduleRunner interface {
	Run(ctx context.Context, p schedule.Params) (*schedule.RunResult, error)
}

// Config holds server configuration
type Config struct {
	Log     zerolog.Logger
	Port    int
	DevMode bool
	Service ScheduleRunner
	Queue   *queue.Queue
	Events  *eventstore.Repository
}

// Server represents the HTTP server
type Server struct {
	router      *chi.Mux
	server      *http.Server
	log         zerolog.Logger
	service     ScheduleRunner
	queue       *queue.Queue
	events      *eventstore.Repository
	startupTime time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		service:     cfg.Service,
		queue:       cfg.Queue,
		events:      cfg.Events,
		startupTime: time.Now(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/ping", s.handlePing)

	s.router.Route("/api/v1.0", func(r chi.Router) {
		r.Put("/publishschedule", s.handlePublishSchedule)
		r.Post("/queue", s.handleEnqueue)
		r.Get("/status", s.handleStatus)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": "Not found"})
	})
}

// Start begins serving. Blocks until the server is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router exposes the chi router, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}
