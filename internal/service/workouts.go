package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// WorkoutInput carries the fields accepted on workout create and update.
type WorkoutInput struct {
	Name      string                   `json:"name"`
	Notes     string                   `json:"notes"`
	Exercises []models.WorkoutExercise `json:"exercises"`
}

// CreateWorkout creates a workout after validating every exercise reference.
func (s *Service) CreateWorkout(ctx context.Context, userID uuid.UUID, in WorkoutInput) (*models.Workout, error) {
	if in.Name == "" {
		return nil, Invalid("workout name is required")
	}
	if err := s.validateExerciseRefs(ctx, userID, in.Exercises); err != nil {
		return nil, err
	}

	w := &models.Workout{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      in.Name,
		Notes:     in.Notes,
		Exercises: in.Exercises,
	}
	if err := s.store.InsertWorkout(ctx, w); err != nil {
		return nil, err
	}
	return s.GetWorkout(ctx, w.ID, userID)
}

// GetWorkout returns a workout owned by the user.
func (s *Service) GetWorkout(ctx context.Context, id, userID uuid.UUID) (*models.Workout, error) {
	w, err := s.store.GetWorkout(ctx, id, userID)
	if storage.IsNoRows(err) {
		return nil, NotFound("workout not found")
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkouts returns the user's workouts.
func (s *Service) ListWorkouts(ctx context.Context, userID uuid.UUID) ([]models.Workout, error) {
	return s.store.ListWorkouts(ctx, userID)
}

// UpdateWorkout replaces a workout's name, notes, and entries after
// revalidating the exercise references.
func (s *Service) UpdateWorkout(ctx context.Context, id, userID uuid.UUID, in WorkoutInput) (*models.Workout, error) {
	if in.Name == "" {
		return nil, Invalid("workout name is required")
	}
	if err := s.validateExerciseRefs(ctx, userID, in.Exercises); err != nil {
		return nil, err
	}

	w := &models.Workout{
		ID:        id,
		UserID:    userID,
		Name:      in.Name,
		Notes:     in.Notes,
		Exercises: in.Exercises,
	}
	ok, err := s.store.UpdateWorkout(ctx, w)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFound("workout not found")
	}
	return s.GetWorkout(ctx, id, userID)
}

// DeleteWorkout deletes a workout owned by the user.
func (s *Service) DeleteWorkout(ctx context.Context, id, userID uuid.UUID) error {
	ok, err := s.store.DeleteWorkout(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound("workout not found")
	}
	return nil
}

// DuplicateWorkout creates a structural copy of a workout: a new id, the
// name suffixed " (Copy)", and the same exercise entry list.
func (s *Service) DuplicateWorkout(ctx context.Context, id, userID uuid.UUID) (*models.Workout, error) {
	src, err := s.GetWorkout(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	copyW := &models.Workout{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      src.Name + " (Copy)",
		Notes:     src.Notes,
		Exercises: src.Exercises,
	}
	if err := s.store.InsertWorkout(ctx, copyW); err != nil {
		return nil, err
	}
	return s.GetWorkout(ctx, copyW.ID, userID)
}

// validateExerciseRefs checks that every referenced exercise resolves to one
// visible to the user. The comparison is set-equality over distinct ids, so a
// request listing the same id twice cannot mask a dangling reference.
func (s *Service) validateExerciseRefs(ctx context.Context, userID uuid.UUID, entries []models.WorkoutExercise) error {
	if len(entries) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool, len(entries))
	distinct := make([]uuid.UUID, 0, len(entries))
	for _, we := range entries {
		if !seen[we.ExerciseID] {
			seen[we.ExerciseID] = true
			distinct = append(distinct, we.ExerciseID)
		}
	}

	count, err := s.store.CountVisibleExercises(ctx, userID, distinct)
	if err != nil {
		return err
	}
	if count != len(distinct) {
		return Conflict("one or more exercises do not exist or are not yours")
	}
	return nil
}
