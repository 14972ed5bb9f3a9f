package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// Stats is the dashboard aggregation over a user's sessions.
type Stats struct {
	TotalCompleted int64                   `json:"total_completed"`
	WeekCompleted  int64                   `json:"week_completed"`
	CurrentStreak  int                     `json:"current_streak"`
	TotalVolumeKg  float64                 `json:"total_volume_kg"`
	RecentSessions []models.WorkoutSession `json:"recent_sessions"`
}

// GetStats computes the dashboard statistics: lifetime and this-week
// completed counts (week boundary Sunday midnight local time), the
// consecutive-day streak, total volume, and the five most recent sessions.
func (s *Service) GetStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	now := s.now()

	counts, err := s.store.GetSessionCounts(ctx, userID, models.WeekStart(now))
	if err != nil {
		return nil, err
	}

	completions, err := s.store.GetCompletionTimes(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.store.ListSessions(ctx, userID, storage.SessionFilter{Limit: 5})
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.WorkoutSession{}
	}

	return &Stats{
		TotalCompleted: counts.TotalCompleted,
		WeekCompleted:  counts.WeekCompleted,
		CurrentStreak:  models.Streak(completions, now),
		TotalVolumeKg:  counts.TotalVolumeKg,
		RecentSessions: recent,
	}, nil
}
