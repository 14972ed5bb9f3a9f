package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

const sessionColumns = `s.id, s.user_id, s.workout_id, w.name, s.started_at, s.completed_at,
	s.completed, s.abandoned, s.abandon_reason, s.perceived_difficulty, s.energy_level,
	s.mood_after, s.notes, s.completion_pct, s.total_volume_kg, s.total_reps,
	s.duration_minutes, s.exercises`

// ActiveSessionConstraint is the partial unique index guaranteeing at most one
// non-terminal session per user.
const ActiveSessionConstraint = "idx_sessions_one_active"

// SessionFilter narrows ListSessions. Completed=nil matches all states.
type SessionFilter struct {
	Completed *bool
	Limit     int
}

// InsertSession inserts a new session row. A unique violation on
// ActiveSessionConstraint means the user already has an active session.
func (db *DB) InsertSession(ctx context.Context, s *models.WorkoutSession) error {
	exercises, err := json.Marshal(s.Exercises)
	if err != nil {
		return fmt.Errorf("marshaling session exercises: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_sessions (id, user_id, workout_id, started_at, exercises)
		 VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.UserID, s.WorkoutID, s.StartedAt, exercises)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// GetSession retrieves a session owned by the user, with the workout name
// populated.
func (db *DB) GetSession(ctx context.Context, id, userID uuid.UUID) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM workout_sessions s JOIN workouts w ON w.id = s.workout_id
		 WHERE s.id = $1 AND s.user_id = $2`, id, userID)
	return scanSession(row)
}

// GetActiveSession returns the user's active session, or pgx.ErrNoRows when
// none exists.
func (db *DB) GetActiveSession(ctx context.Context, userID uuid.UUID) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM workout_sessions s JOIN workouts w ON w.id = s.workout_id
		 WHERE s.user_id = $1 AND NOT s.completed AND NOT s.abandoned`, userID)
	return scanSession(row)
}

// ListSessions returns the user's sessions, most recent first.
func (db *DB) ListSessions(ctx context.Context, userID uuid.UUID, f SessionFilter) ([]models.WorkoutSession, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM workout_sessions s JOIN workouts w ON w.id = s.workout_id
		 WHERE s.user_id = $1 AND ($2::boolean IS NULL OR s.completed = $2)
		 ORDER BY s.started_at DESC
		 LIMIT $3`, userID, f.Completed, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// UpdateSession writes back mutable session state: performance records, state
// flags, completion metadata, and derived totals.
func (db *DB) UpdateSession(ctx context.Context, s *models.WorkoutSession) error {
	exercises, err := json.Marshal(s.Exercises)
	if err != nil {
		return fmt.Errorf("marshaling session exercises: %w", err)
	}

	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_sessions SET
			completed_at = $3, completed = $4, abandoned = $5, abandon_reason = $6,
			perceived_difficulty = $7, energy_level = $8, mood_after = $9, notes = $10,
			completion_pct = $11, total_volume_kg = $12, total_reps = $13,
			duration_minutes = $14, exercises = $15
		 WHERE id = $1 AND user_id = $2`,
		s.ID, s.UserID, s.CompletedAt, s.Completed, s.Abandoned, s.AbandonReason,
		s.PerceivedDifficulty, s.EnergyLevel, s.MoodAfter, s.Notes,
		s.CompletionPct, s.TotalVolumeKg, s.TotalReps,
		s.DurationMinutes, exercises)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating session %s: no such row", s.ID)
	}
	return nil
}

func scanSession(row interface{ Scan(dest ...any) error }) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	var exercises []byte
	err := row.Scan(&s.ID, &s.UserID, &s.WorkoutID, &s.WorkoutName,
		&s.StartedAt, &s.CompletedAt,
		&s.Completed, &s.Abandoned, &s.AbandonReason,
		&s.PerceivedDifficulty, &s.EnergyLevel,
		&s.MoodAfter, &s.Notes, &s.CompletionPct, &s.TotalVolumeKg, &s.TotalReps,
		&s.DurationMinutes, &exercises)
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	if err := json.Unmarshal(exercises, &s.Exercises); err != nil {
		return nil, fmt.Errorf("unmarshaling session exercises: %w", err)
	}
	return &s, nil
}
