package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

const exerciseColumns = `id, user_id, name, type, category, muscle_groups, equipment,
	default_sets, default_reps, rest_seconds, duration_seconds, distance_meters,
	created_at, updated_at`

// ExerciseFilter narrows ListExercises results. Zero values match everything.
type ExerciseFilter struct {
	Type        string
	Category    string
	MuscleGroup string
}

// InsertExercise inserts an exercise row.
func (db *DB) InsertExercise(ctx context.Context, e *models.Exercise) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercises (id, user_id, name, type, category, muscle_groups, equipment,
		 default_sets, default_reps, rest_seconds, duration_seconds, distance_meters)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		e.ID, e.UserID, e.Name, e.Type, e.Category, e.MuscleGroups, e.Equipment,
		e.DefaultSets, e.DefaultReps, e.RestSeconds, e.DurationSeconds, e.DistanceMeters)
	if err != nil {
		return fmt.Errorf("inserting exercise: %w", err)
	}
	return nil
}

// GetExercise retrieves an exercise visible to the user: owned or predefined.
func (db *DB) GetExercise(ctx context.Context, id, userID uuid.UUID) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+exerciseColumns+` FROM exercises
		 WHERE id = $1 AND (user_id = $2 OR user_id IS NULL)`, id, userID)
	return scanExercise(row)
}

// ListExercises returns exercises visible to the user matching the filter,
// most recently created first.
func (db *DB) ListExercises(ctx context.Context, userID uuid.UUID, f ExerciseFilter) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises
		 WHERE (user_id = $1 OR user_id IS NULL)
		   AND ($2 = '' OR type = $2)
		   AND ($3 = '' OR category = $3)
		   AND ($4 = '' OR $4 = ANY(muscle_groups))
		 ORDER BY created_at DESC`,
		userID, f.Type, f.Category, f.MuscleGroup)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

// CountVisibleExercises returns how many of the given distinct ids resolve to
// exercises visible to the user (owned or predefined). Used for workout
// reference validation.
func (db *DB) CountVisibleExercises(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exercises
		 WHERE id = ANY($1) AND (user_id = $2 OR user_id IS NULL)`,
		ids, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting exercises: %w", err)
	}
	return count, nil
}

// FindExerciseByName finds a user-visible exercise with the exact given name.
// Owned exercises win over predefined ones with the same name.
func (db *DB) FindExerciseByName(ctx context.Context, userID uuid.UUID, name string) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+exerciseColumns+` FROM exercises
		 WHERE name = $1 AND (user_id = $2 OR user_id IS NULL)
		 ORDER BY user_id NULLS LAST LIMIT 1`, name, userID)
	return scanExercise(row)
}

// UpdateExercise updates an owned exercise. Predefined exercises cannot be
// modified; the ownership condition makes such updates report zero rows.
func (db *DB) UpdateExercise(ctx context.Context, e *models.Exercise) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE exercises SET name = $3, type = $4, category = $5, muscle_groups = $6,
		 equipment = $7, default_sets = $8, default_reps = $9, rest_seconds = $10,
		 duration_seconds = $11, distance_meters = $12, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		e.ID, e.UserID, e.Name, e.Type, e.Category, e.MuscleGroups,
		e.Equipment, e.DefaultSets, e.DefaultReps, e.RestSeconds,
		e.DurationSeconds, e.DistanceMeters)
	if err != nil {
		return false, fmt.Errorf("updating exercise: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteExercise deletes an owned exercise. Returns false when the exercise
// does not exist or is not owned by the user.
func (db *DB) DeleteExercise(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM exercises WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting exercise: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanExercise(row interface{ Scan(dest ...any) error }) (*models.Exercise, error) {
	var e models.Exercise
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.Type, &e.Category,
		&e.MuscleGroups, &e.Equipment,
		&e.DefaultSets, &e.DefaultReps, &e.RestSeconds,
		&e.DurationSeconds, &e.DistanceMeters,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning exercise: %w", err)
	}
	return &e, nil
}
