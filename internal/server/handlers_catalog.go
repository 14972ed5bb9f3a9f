package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/service"
	"github.com/meltforce/liftlog/internal/storage"
)

// urlUUID parses the {id} route parameter.
func urlUUID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, service.Invalid("invalid id")
	}
	return id, nil
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.ExerciseFilter{
		Type:        q.Get("type"),
		Category:    q.Get("category"),
		MuscleGroup: q.Get("muscle_group"),
	}

	exercises, err := s.svc.ListExercises(r.Context(), UserID(r), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var in service.ExerciseInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	exercise, err := s.svc.CreateExercise(r.Context(), UserID(r), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exercise)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	exercise, err := s.svc.GetExercise(r.Context(), id, UserID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var in service.ExerciseInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	exercise, err := s.svc.UpdateExercise(r.Context(), id, UserID(r), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.svc.DeleteExercise(r.Context(), id, UserID(r)); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.svc.ListWorkouts(r.Context(), UserID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var in service.WorkoutInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	workout, err := s.svc.CreateWorkout(r.Context(), UserID(r), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	workout, err := s.svc.GetWorkout(r.Context(), id, UserID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var in service.WorkoutInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	workout, err := s.svc.UpdateWorkout(r.Context(), id, UserID(r), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.svc.DeleteWorkout(r.Context(), id, UserID(r)); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicateWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	workout, err := s.svc.DuplicateWorkout(r.Context(), id, UserID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}
