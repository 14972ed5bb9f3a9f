package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/service"
	"github.com/meltforce/liftlog/internal/storage"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var in struct {
		WorkoutID uuid.UUID `json:"workout_id"`
	}
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}
	if in.WorkoutID == uuid.Nil {
		s.writeError(w, service.Invalid("workout_id is required"))
		return
	}

	session, err := s.svc.StartSession(r.Context(), UserID(r), in.WorkoutID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter storage.SessionFilter

	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, service.Invalid("completed must be true or false"))
			return
		}
		filter.Completed = &completed
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			s.writeError(w, service.Invalid("limit must be a positive integer"))
			return
		}
		filter.Limit = limit
	}

	sessions, err := s.svc.ListSessions(r.Context(), UserID(r), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	session, err := s.svc.GetSession(r.Context(), id, UserID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var in struct {
		Exercises []models.ExercisePerformance `json:"exercises_performed"`
	}
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	session, err := s.svc.UpdateSession(r.Context(), id, UserID(r), in.Exercises)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var in service.CompletionInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	session, err := s.svc.CompleteSession(r.Context(), id, UserID(r), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var in struct {
		AbandonReason string `json:"abandon_reason"`
	}
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	session, err := s.svc.AbandonSession(r.Context(), id, UserID(r), in.AbandonReason)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.GetStats(r.Context(), UserID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
