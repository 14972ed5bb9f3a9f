package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// ExerciseInput carries the fields accepted on exercise create and update.
type ExerciseInput struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Category        string   `json:"category"`
	MuscleGroups    []string `json:"muscle_groups"`
	Equipment       []string `json:"equipment"`
	DefaultSets     *int     `json:"default_sets"`
	DefaultReps     *int     `json:"default_reps"`
	RestSeconds     *int     `json:"rest_seconds"`
	DurationSeconds *int     `json:"duration_seconds"`
	DistanceMeters  *float64 `json:"distance_meters"`
}

func (in *ExerciseInput) validate() error {
	if in.Name == "" {
		return Invalid("exercise name is required")
	}
	switch in.Type {
	case "", models.ExerciseTypeReps, models.ExerciseTypeTime, models.ExerciseTypeCardio:
	default:
		return Invalid("exercise type must be reps, time, or cardio")
	}
	return nil
}

func (in *ExerciseInput) apply(e *models.Exercise) {
	e.Name = in.Name
	e.Type = in.Type
	if e.Type == "" {
		e.Type = models.ExerciseTypeReps
	}
	e.Category = in.Category
	e.MuscleGroups = in.MuscleGroups
	e.Equipment = in.Equipment
	e.DefaultSets = in.DefaultSets
	e.DefaultReps = in.DefaultReps
	e.RestSeconds = in.RestSeconds
	e.DurationSeconds = in.DurationSeconds
	e.DistanceMeters = in.DistanceMeters
	if e.MuscleGroups == nil {
		e.MuscleGroups = []string{}
	}
	if e.Equipment == nil {
		e.Equipment = []string{}
	}
}

// CreateExercise creates an exercise owned by the user.
func (s *Service) CreateExercise(ctx context.Context, userID uuid.UUID, in ExerciseInput) (*models.Exercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	e := &models.Exercise{ID: uuid.New(), UserID: &userID}
	in.apply(e)

	if err := s.store.InsertExercise(ctx, e); err != nil {
		return nil, err
	}
	return s.GetExercise(ctx, e.ID, userID)
}

// GetExercise returns an exercise visible to the user.
func (s *Service) GetExercise(ctx context.Context, id, userID uuid.UUID) (*models.Exercise, error) {
	e, err := s.store.GetExercise(ctx, id, userID)
	if storage.IsNoRows(err) {
		return nil, NotFound("exercise not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListExercises returns the exercises visible to the user matching the filter.
func (s *Service) ListExercises(ctx context.Context, userID uuid.UUID, f storage.ExerciseFilter) ([]models.Exercise, error) {
	return s.store.ListExercises(ctx, userID, f)
}

// UpdateExercise updates an exercise owned by the user. Predefined and
// non-owned exercises report not found.
func (s *Service) UpdateExercise(ctx context.Context, id, userID uuid.UUID, in ExerciseInput) (*models.Exercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	e := &models.Exercise{ID: id, UserID: &userID}
	in.apply(e)

	ok, err := s.store.UpdateExercise(ctx, e)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFound("exercise not found")
	}
	return s.GetExercise(ctx, id, userID)
}

// DeleteExercise deletes an exercise owned by the user.
func (s *Service) DeleteExercise(ctx context.Context, id, userID uuid.UUID) error {
	ok, err := s.store.DeleteExercise(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound("exercise not found")
	}
	return nil
}

// ResolveExercise finds a user-visible exercise by exact name or creates a new
// owned one from the input. Used by the AI workout generator so repeated
// generations reuse the same catalog entries.
func (s *Service) ResolveExercise(ctx context.Context, userID uuid.UUID, in ExerciseInput) (*models.Exercise, error) {
	existing, err := s.store.FindExerciseByName(ctx, userID, in.Name)
	if err == nil {
		return existing, nil
	}
	if !storage.IsNoRows(err) {
		return nil, err
	}
	return s.CreateExercise(ctx, userID, in)
}
