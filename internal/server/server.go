package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/workoutapi/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	workouts *service.Workouts
	records  *service.Records
	cache    *ResponseCache
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured. cache may be nil, in
// which case workout listings are never cached.
func New(workouts *service.Workouts, records *service.Records, cache *ResponseCache, log *slog.Logger) *Server {
	s := &Server{
		workouts: workouts,
		records:  records,
		cache:    cache,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(Metrics)
	s.router.Use(CORS)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1/workouts", func(r chi.Router) {
		r.With(s.cacheMiddleware).Get("/", s.handleListWorkouts)
		r.Post("/", s.handleCreateWorkout)
		r.Get("/{workoutId}", s.handleGetWorkout)
		r.Patch("/{workoutId}", s.handleUpdateWorkout)
		r.Delete("/{workoutId}", s.handleDeleteWorkout)
		r.Get("/{workoutId}/records", s.handleListRecords)
	})
}

// MountMCP serves an MCP handler at /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

func (s *Server) cacheMiddleware(next http.Handler) http.Handler {
	if s.cache == nil {
		return next
	}
	return s.cache.Middleware(next)
}

// purgeCache drops cached listings after a write.
func (s *Server) purgeCache() {
	if s.cache != nil {
		s.cache.Purge()
	}
}
