package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// Store abstracts the persistence layer for the business services, so tests
// can substitute an in-memory implementation. *storage.DB is the production
// implementation.
type Store interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUserProfile(ctx context.Context, u *models.User) error

	InsertExercise(ctx context.Context, e *models.Exercise) error
	GetExercise(ctx context.Context, id, userID uuid.UUID) (*models.Exercise, error)
	ListExercises(ctx context.Context, userID uuid.UUID, f storage.ExerciseFilter) ([]models.Exercise, error)
	CountVisibleExercises(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error)
	FindExerciseByName(ctx context.Context, userID uuid.UUID, name string) (*models.Exercise, error)
	UpdateExercise(ctx context.Context, e *models.Exercise) (bool, error)
	DeleteExercise(ctx context.Context, id, userID uuid.UUID) (bool, error)

	InsertWorkout(ctx context.Context, w *models.Workout) error
	GetWorkout(ctx context.Context, id, userID uuid.UUID) (*models.Workout, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID) ([]models.Workout, error)
	UpdateWorkout(ctx context.Context, w *models.Workout) (bool, error)
	DeleteWorkout(ctx context.Context, id, userID uuid.UUID) (bool, error)

	InsertSession(ctx context.Context, s *models.WorkoutSession) error
	GetSession(ctx context.Context, id, userID uuid.UUID) (*models.WorkoutSession, error)
	GetActiveSession(ctx context.Context, userID uuid.UUID) (*models.WorkoutSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID, f storage.SessionFilter) ([]models.WorkoutSession, error)
	UpdateSession(ctx context.Context, s *models.WorkoutSession) error

	GetSessionCounts(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*storage.SessionCounts, error)
	GetCompletionTimes(ctx context.Context, userID uuid.UUID) ([]time.Time, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)
