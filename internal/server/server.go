package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/liftlog/internal/auth"
	"github.com/meltforce/liftlog/internal/coach"
	"github.com/meltforce/liftlog/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    *service.Service
	coach  *coach.Gateway
	auth   *auth.Service
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(svc *service.Service, gateway *coach.Gateway, authSvc *auth.Service, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		coach:  gateway,
		auth:   authSvc,
		log:    log,
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
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(s.auth))

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/users/me", s.handleGetProfile)
			r.Put("/users/me", s.handleUpdateProfile)

			r.Route("/exercises", func(r chi.Router) {
				r.Get("/", s.handleListExercises)
				r.Post("/", s.handleCreateExercise)
				r.Get("/{id}", s.handleGetExercise)
				r.Put("/{id}", s.handleUpdateExercise)
				r.Delete("/{id}", s.handleDeleteExercise)
			})

			r.Route("/workouts", func(r chi.Router) {
				r.Get("/", s.handleListWorkouts)
				r.Post("/", s.handleCreateWorkout)
				r.Get("/{id}", s.handleGetWorkout)
				r.Put("/{id}", s.handleUpdateWorkout)
				r.Delete("/{id}", s.handleDeleteWorkout)
				r.Post("/{id}/duplicate", s.handleDuplicateWorkout)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/start", s.handleStartSession)
				r.Get("/", s.handleListSessions)
				r.Get("/{id}", s.handleGetSession)
				r.Put("/{id}", s.handleUpdateSession)
				r.Post("/{id}/complete", s.handleCompleteSession)
				r.Post("/{id}/abandon", s.handleAbandonSession)
			})

			r.Get("/stats", s.handleStats)

			r.Route("/ai", func(r chi.Router) {
				r.Post("/chat", s.handleAIChat)
				r.Post("/generate-workout", s.handleAIGenerateWorkout)
				r.Post("/analyze-progress", s.handleAIAnalyzeProgress)
				r.Post("/ask", s.handleAIAsk)
			})
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps business errors to their status; anything untyped is
// logged and reported as a generic 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := service.StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return service.Invalid("invalid JSON: " + err.Error())
	}
	return nil
}
