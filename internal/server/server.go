package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/pulsefit/internal/service"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    *service.Service
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// leaves the API unauthenticated; the tailnet handles access then.
func New(svc *service.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(RequestMetrics)
	s.router.Use(CORS)

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if s.apiKey != "" {
				r.Use(APIKeyAuth(s.apiKey))
			}

			r.Post("/users", s.handleCreateUser)
			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetUser)
				r.Patch("/", s.handleUpdateProfile)
				r.Post("/streak-freeze", s.handleUseStreakFreeze)
				r.Get("/settings", s.handleGetSettings)
				r.Put("/settings", s.handleSaveSettings)
				r.Get("/workouts", s.handleListWorkouts)
				r.Get("/stats", s.handleStats)
				r.Get("/trends", s.handleTrends)
				r.Get("/quests", s.handleQuests)
				r.Get("/achievements", s.handleAchievements)
				r.Post("/achievements/check", s.handleCheckAchievements)
				r.Get("/personal-bests", s.handlePersonalBests)
				r.Get("/templates", s.handleUserTemplates)
				r.Post("/templates", s.handleCreateTemplate)
				r.Get("/export", s.handleExport)
			})

			r.Post("/workouts", s.handleSubmitWorkout)
			r.Get("/workouts/{id}", s.handleGetWorkout)

			r.Get("/templates", s.handleTemplates)
			r.Get("/templates/{id}", s.handleGetTemplate)
			r.Delete("/templates/{id}", s.handleDeleteTemplate)

			r.Get("/zones", s.handleZones)
			r.Post("/simulate-hr", s.handleSimulateHR)
		})
	})
}

// SetMetrics exposes a Prometheus handler at path, outside API key auth.
func (s *Server) SetMetrics(path string, h http.Handler) {
	s.router.Method(http.MethodGet, path, h)
}

// SetMCP mounts an MCP streamable-HTTP handler at /mcp. Requests are
// authenticated like the REST API.
func (s *Server) SetMCP(h http.Handler) {
	if s.apiKey != "" {
		h = APIKeyAuth(s.apiKey)(h)
	}
	s.router.Mount("/mcp", h)
}
