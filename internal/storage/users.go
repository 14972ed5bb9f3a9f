package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

const userColumns = `id, email, username, password_hash, weight_kg, height_cm, age,
	equipment, location, session_minutes, days_per_week, goals, coach_personality,
	created_at, updated_at`

// InsertUser inserts a new user row.
func (db *DB) InsertUser(ctx context.Context, u *models.User) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO users (id, email, username, password_hash, weight_kg, height_cm, age,
		 equipment, location, session_minutes, days_per_week, goals, coach_personality)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.WeightKg, u.HeightCm, u.Age,
		u.Equipment, u.Location, u.SessionMinutes, u.DaysPerWeek, u.Goals, u.CoachPersonality)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by id.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// UpdateUserProfile updates profile, preference, and goal fields.
func (db *DB) UpdateUserProfile(ctx context.Context, u *models.User) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE users SET username = $2, weight_kg = $3, height_cm = $4, age = $5,
		 equipment = $6, location = $7, session_minutes = $8, days_per_week = $9,
		 goals = $10, coach_personality = $11, updated_at = NOW()
		 WHERE id = $1`,
		u.ID, u.Username, u.WeightKg, u.HeightCm, u.Age,
		u.Equipment, u.Location, u.SessionMinutes, u.DaysPerWeek,
		u.Goals, u.CoachPersonality)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating user %s: no such row", u.ID)
	}
	return nil
}

// GetChatHistory returns the user's conversation history, oldest first.
// At most models.MaxChatHistory entries exist per user (see AppendChatMessages).
func (db *DB) GetChatHistory(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT role, content FROM chat_messages
		 WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying chat history: %w", err)
	}
	defer rows.Close()

	var history []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		history = append(history, m)
	}
	return history, rows.Err()
}

// AppendChatMessages appends messages to the user's history, then trims the
// history to the most recent models.MaxChatHistory entries.
func (db *DB) AppendChatMessages(ctx context.Context, userID uuid.UUID, messages []models.ChatMessage) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning chat append: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, m := range messages {
		if _, err := tx.Exec(ctx,
			`INSERT INTO chat_messages (user_id, role, content) VALUES ($1, $2, $3)`,
			userID, m.Role, m.Content); err != nil {
			return fmt.Errorf("inserting chat message: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM chat_messages
		 WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM chat_messages WHERE user_id = $1 ORDER BY id DESC LIMIT $2
		 )`, userID, models.MaxChatHistory)
	if err != nil {
		return fmt.Errorf("trimming chat history: %w", err)
	}

	return tx.Commit(ctx)
}

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.WeightKg, &u.HeightCm, &u.Age,
		&u.Equipment, &u.Location, &u.SessionMinutes, &u.DaysPerWeek,
		&u.Goals, &u.CoachPersonality, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}
