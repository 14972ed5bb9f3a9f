package mcp

import (
	"context"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/service"
	"github.com/meltforce/liftlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *service.Service
// (local, over the database) and HTTPClient (remote via the REST API)
// satisfy this interface.
type DataSource interface {
	ListSessions(ctx context.Context, userID uuid.UUID, f storage.SessionFilter) ([]models.WorkoutSession, error)
	GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*models.WorkoutSession, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID) ([]models.Workout, error)
	ListExercises(ctx context.Context, userID uuid.UUID, f storage.ExerciseFilter) ([]models.Exercise, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*service.Stats, error)
}

// Compile-time check: *service.Service satisfies DataSource.
var _ DataSource = (*service.Service)(nil)
