package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionCounts holds the aggregate counters behind the dashboard stats.
type SessionCounts struct {
	TotalCompleted int64
	WeekCompleted  int64
	TotalVolumeKg  float64
}

// GetSessionCounts returns completed-session counts and total volume for a
// user. weekStart is the local-time boundary for the this-week counter.
func (db *DB) GetSessionCounts(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*SessionCounts, error) {
	counts := &SessionCounts{}
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE completed_at >= $2),
		        COALESCE(SUM(total_volume_kg), 0)
		 FROM workout_sessions
		 WHERE user_id = $1 AND completed`, userID, weekStart).
		Scan(&counts.TotalCompleted, &counts.WeekCompleted, &counts.TotalVolumeKg)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}
	return counts, nil
}

// GetCompletionTimes returns completion timestamps of the user's completed
// sessions, most recent first. Input for the streak computation.
func (db *DB) GetCompletionTimes(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT completed_at FROM workout_sessions
		 WHERE user_id = $1 AND completed AND completed_at IS NOT NULL
		 ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying completion times: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning completion time: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}
