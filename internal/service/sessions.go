package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// CompletionInput carries the feedback recorded when a session is completed.
type CompletionInput struct {
	PerceivedDifficulty *int   `json:"perceived_difficulty"`
	EnergyLevel         *int   `json:"energy_level"`
	MoodAfter           string `json:"mood_after"`
	Notes               string `json:"notes"`
}

// StartSession creates an active session for the given workout. Fails with
// NotFound when the workout is not owned by the user and with Conflict when
// an active session already exists. Per-exercise records are seeded with
// total_sets = entry override, else the exercise default, else 1.
func (s *Service) StartSession(ctx context.Context, userID, workoutID uuid.UUID) (*models.WorkoutSession, error) {
	workout, err := s.GetWorkout(ctx, workoutID, userID)
	if err != nil {
		return nil, err
	}

	// Friendly pre-check; the partial unique index is the real guarantee.
	if _, err := s.store.GetActiveSession(ctx, userID); err == nil {
		return nil, Conflict("an active session already exists; complete or abandon it first")
	} else if !storage.IsNoRows(err) {
		return nil, err
	}

	performances := make([]models.ExercisePerformance, 0, len(workout.Exercises))
	for _, entry := range workout.Exercises {
		totalSets := 1
		if entry.Sets != nil {
			totalSets = *entry.Sets
		} else {
			ex, err := s.store.GetExercise(ctx, entry.ExerciseID, userID)
			if err == nil && ex.DefaultSets != nil {
				totalSets = *ex.DefaultSets
			}
		}
		performances = append(performances, models.ExercisePerformance{
			ExerciseID:   entry.ExerciseID,
			ExerciseName: entry.ExerciseName,
			TotalSets:    totalSets,
			Sets:         []models.SetRecord{},
		})
	}

	session := &models.WorkoutSession{
		ID:        uuid.New(),
		UserID:    userID,
		WorkoutID: workoutID,
		StartedAt: s.now(),
		Exercises: performances,
	}

	if err := s.store.InsertSession(ctx, session); err != nil {
		if storage.IsUniqueViolation(err, storage.ActiveSessionConstraint) {
			return nil, Conflict("an active session already exists; complete or abandon it first")
		}
		return nil, err
	}
	return s.GetSession(ctx, session.ID, userID)
}

// UpdateSession replaces the performed-exercise list of an active session
// wholesale and recomputes the completion percentage. Terminal or non-owned
// sessions report not found.
func (s *Service) UpdateSession(ctx context.Context, sessionID, userID uuid.UUID, performed []models.ExercisePerformance) (*models.WorkoutSession, error) {
	session, err := s.getActiveOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if performed == nil {
		performed = []models.ExercisePerformance{}
	}
	session.Exercises = performed
	session.CompletionPct = models.CompletionPercent(performed)

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CompleteSession transitions an active session to its completed terminal
// state: stamps the completion time and duration, records the feedback, and
// recomputes volume and rep totals from the recorded sets.
func (s *Service) CompleteSession(ctx context.Context, sessionID, userID uuid.UUID, in CompletionInput) (*models.WorkoutSession, error) {
	if err := validateScale(in.PerceivedDifficulty, "perceived_difficulty"); err != nil {
		return nil, err
	}
	if err := validateScale(in.EnergyLevel, "energy_level"); err != nil {
		return nil, err
	}

	session, err := s.getActiveOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session.Completed = true
	session.Abandoned = false
	session.AbandonReason = ""
	session.CompletedAt = &now
	session.DurationMinutes = int(math.Round(now.Sub(session.StartedAt).Minutes()))
	session.PerceivedDifficulty = in.PerceivedDifficulty
	session.EnergyLevel = in.EnergyLevel
	session.MoodAfter = in.MoodAfter
	session.Notes = in.Notes
	session.TotalVolumeKg, session.TotalReps = models.SessionTotals(session.Exercises)

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AbandonSession transitions an active session to its abandoned terminal
// state, recording the reason. Volume and rep totals are left untouched.
func (s *Service) AbandonSession(ctx context.Context, sessionID, userID uuid.UUID, reason string) (*models.WorkoutSession, error) {
	session, err := s.getActiveOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session.Abandoned = true
	session.AbandonReason = reason
	session.CompletedAt = &now
	session.DurationMinutes = int(math.Round(now.Sub(session.StartedAt).Minutes()))

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns a session owned by the user.
func (s *Service) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*models.WorkoutSession, error) {
	session, err := s.store.GetSession(ctx, sessionID, userID)
	if storage.IsNoRows(err) {
		return nil, NotFound("session not found")
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns the user's sessions, optionally filtered by
// completion state.
func (s *Service) ListSessions(ctx context.Context, userID uuid.UUID, f storage.SessionFilter) ([]models.WorkoutSession, error) {
	return s.store.ListSessions(ctx, userID, f)
}

func (s *Service) getActiveOwned(ctx context.Context, sessionID, userID uuid.UUID) (*models.WorkoutSession, error) {
	session, err := s.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return nil, NotFound("session not found or no longer active")
	}
	return session, nil
}

func validateScale(v *int, field string) error {
	if v != nil && (*v < 1 || *v > 10) {
		return Invalid(field + " must be between 1 and 10")
	}
	return nil
}
