package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// ProfileInput carries the mutable profile, preference, and goal fields.
type ProfileInput struct {
	Username         *string  `json:"username"`
	WeightKg         *float64 `json:"weight_kg"`
	HeightCm         *float64 `json:"height_cm"`
	Age              *int     `json:"age"`
	Equipment        []string `json:"equipment"`
	Location         *string  `json:"location"`
	SessionMinutes   *int     `json:"session_minutes"`
	DaysPerWeek      *int     `json:"days_per_week"`
	Goals            []string `json:"goals"`
	CoachPersonality *string  `json:"coach_personality"`
}

// GetProfile returns the user's profile.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if storage.IsNoRows(err) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies the provided fields to the user's profile; absent
// fields are left unchanged.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		if *in.Username == "" {
			return nil, Invalid("username cannot be empty")
		}
		u.Username = *in.Username
	}
	if in.WeightKg != nil {
		u.WeightKg = in.WeightKg
	}
	if in.HeightCm != nil {
		u.HeightCm = in.HeightCm
	}
	if in.Age != nil {
		u.Age = in.Age
	}
	if in.Equipment != nil {
		u.Equipment = in.Equipment
	}
	if in.Location != nil {
		u.Location = *in.Location
	}
	if in.SessionMinutes != nil {
		if *in.SessionMinutes <= 0 {
			return nil, Invalid("session_minutes must be positive")
		}
		u.SessionMinutes = *in.SessionMinutes
	}
	if in.DaysPerWeek != nil {
		if *in.DaysPerWeek < 1 || *in.DaysPerWeek > 7 {
			return nil, Invalid("days_per_week must be between 1 and 7")
		}
		u.DaysPerWeek = *in.DaysPerWeek
	}
	if in.Goals != nil {
		u.Goals = in.Goals
	}
	if in.CoachPersonality != nil {
		u.CoachPersonality = *in.CoachPersonality
	}

	if err := s.store.UpdateUserProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
