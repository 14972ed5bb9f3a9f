package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

// InsertWorkout inserts a workout and its ordered exercise entries in one
// transaction.
func (db *DB) InsertWorkout(ctx context.Context, w *models.Workout) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning workout insert: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO workouts (id, user_id, name, notes) VALUES ($1,$2,$3,$4)`,
		w.ID, w.UserID, w.Name, w.Notes)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}

	if err := insertWorkoutExercises(ctx, tx, w.ID, w.Exercises); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetWorkout retrieves a workout owned by the user, with its exercise entries
// and resolved exercise names in position order.
func (db *DB) GetWorkout(ctx context.Context, id, userID uuid.UUID) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, notes, created_at, updated_at
		 FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)

	var w models.Workout
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Notes, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}

	entries, err := db.workoutEntries(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	w.Exercises = entries
	return &w, nil
}

// ListWorkouts returns the user's workouts with entries, most recent first.
func (db *DB) ListWorkouts(ctx context.Context, userID uuid.UUID) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, notes, created_at, updated_at
		 FROM workouts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Notes, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		entries, err := db.workoutEntries(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Exercises = entries
	}
	return result, nil
}

// UpdateWorkout replaces a workout's name, notes, and exercise entries.
// Returns false when the workout does not exist or is not owned by the user.
func (db *DB) UpdateWorkout(ctx context.Context, w *models.Workout) (bool, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning workout update: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE workouts SET name = $3, notes = $4, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		w.ID, w.UserID, w.Name, w.Notes)
	if err != nil {
		return false, fmt.Errorf("updating workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_exercises WHERE workout_id = $1`, w.ID); err != nil {
		return false, fmt.Errorf("clearing workout entries: %w", err)
	}
	if err := insertWorkoutExercises(ctx, tx, w.ID, w.Exercises); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// DeleteWorkout deletes an owned workout and, via cascade, its entries.
func (db *DB) DeleteWorkout(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting workout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (db *DB) workoutEntries(ctx context.Context, workoutID uuid.UUID) ([]models.WorkoutExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT we.exercise_id, e.name, we.position, we.sets, we.reps, we.rest_seconds,
		        we.weight, we.duration_seconds, we.notes
		 FROM workout_exercises we
		 JOIN exercises e ON e.id = we.exercise_id
		 WHERE we.workout_id = $1
		 ORDER BY we.position ASC`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying workout entries: %w", err)
	}
	defer rows.Close()

	var entries []models.WorkoutExercise
	for rows.Next() {
		var we models.WorkoutExercise
		if err := rows.Scan(&we.ExerciseID, &we.ExerciseName, &we.Position,
			&we.Sets, &we.Reps, &we.RestSeconds,
			&we.Weight, &we.DurationSeconds, &we.Notes); err != nil {
			return nil, fmt.Errorf("scanning workout entry: %w", err)
		}
		entries = append(entries, we)
	}
	return entries, rows.Err()
}

func insertWorkoutExercises(ctx context.Context, tx pgx.Tx, workoutID uuid.UUID, entries []models.WorkoutExercise) error {
	for i, we := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO workout_exercises
			 (workout_id, position, exercise_id, sets, reps, rest_seconds, weight, duration_seconds, notes)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			workoutID, i, we.ExerciseID, we.Sets, we.Reps, we.RestSeconds,
			we.Weight, we.DurationSeconds, we.Notes)
		if err != nil {
			return fmt.Errorf("inserting workout entry %d: %w", i, err)
		}
	}
	return nil
}
