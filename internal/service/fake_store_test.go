package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	users     map[uuid.UUID]*models.User
	exercises map[uuid.UUID]*models.Exercise
	workouts  map[uuid.UUID]*models.Workout
	sessions  map[uuid.UUID]*models.WorkoutSession
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[uuid.UUID]*models.User{},
		exercises: map[uuid.UUID]*models.Exercise{},
		workouts:  map[uuid.UUID]*models.Workout{},
		sessions:  map[uuid.UUID]*models.WorkoutSession{},
	}
}

func (f *fakeStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateUserProfile(_ context.Context, u *models.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) InsertExercise(_ context.Context, e *models.Exercise) error {
	cp := *e
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.exercises[e.ID] = &cp
	return nil
}

func (f *fakeStore) GetExercise(_ context.Context, id, userID uuid.UUID) (*models.Exercise, error) {
	e, ok := f.exercises[id]
	if !ok || !visibleTo(e, userID) {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) ListExercises(_ context.Context, userID uuid.UUID, filter storage.ExerciseFilter) ([]models.Exercise, error) {
	var result []models.Exercise
	for _, e := range f.exercises {
		if !visibleTo(e, userID) {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (f *fakeStore) CountVisibleExercises(_ context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	count := 0
	for _, id := range ids {
		if e, ok := f.exercises[id]; ok && visibleTo(e, userID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) FindExerciseByName(_ context.Context, userID uuid.UUID, name string) (*models.Exercise, error) {
	for _, e := range f.exercises {
		if e.Name == name && visibleTo(e, userID) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) UpdateExercise(_ context.Context, e *models.Exercise) (bool, error) {
	existing, ok := f.exercises[e.ID]
	if !ok || !ownedBy(existing, e.UserID) {
		return false, nil
	}
	cp := *e
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	f.exercises[e.ID] = &cp
	return true, nil
}

func (f *fakeStore) DeleteExercise(_ context.Context, id, userID uuid.UUID) (bool, error) {
	e, ok := f.exercises[id]
	if !ok || e.UserID == nil || *e.UserID != userID {
		return false, nil
	}
	delete(f.exercises, id)
	return true, nil
}

func (f *fakeStore) InsertWorkout(_ context.Context, w *models.Workout) error {
	cp := *w
	cp.Exercises = append([]models.WorkoutExercise(nil), w.Exercises...)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.workouts[w.ID] = &cp
	return nil
}

func (f *fakeStore) GetWorkout(_ context.Context, id, userID uuid.UUID) (*models.Workout, error) {
	w, ok := f.workouts[id]
	if !ok || w.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *w
	cp.Exercises = append([]models.WorkoutExercise(nil), w.Exercises...)
	return &cp, nil
}

func (f *fakeStore) ListWorkouts(_ context.Context, userID uuid.UUID) ([]models.Workout, error) {
	var result []models.Workout
	for _, w := range f.workouts {
		if w.UserID == userID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (f *fakeStore) UpdateWorkout(_ context.Context, w *models.Workout) (bool, error) {
	existing, ok := f.workouts[w.ID]
	if !ok || existing.UserID != w.UserID {
		return false, nil
	}
	cp := *w
	cp.Exercises = append([]models.WorkoutExercise(nil), w.Exercises...)
	f.workouts[w.ID] = &cp
	return true, nil
}

func (f *fakeStore) DeleteWorkout(_ context.Context, id, userID uuid.UUID) (bool, error) {
	w, ok := f.workouts[id]
	if !ok || w.UserID != userID {
		return false, nil
	}
	delete(f.workouts, id)
	return true, nil
}

func (f *fakeStore) InsertSession(_ context.Context, s *models.WorkoutSession) error {
	cp := *s
	cp.Exercises = append([]models.ExercisePerformance(nil), s.Exercises...)
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, id, userID uuid.UUID) (*models.WorkoutSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	cp.Exercises = append([]models.ExercisePerformance(nil), s.Exercises...)
	if w, ok := f.workouts[s.WorkoutID]; ok {
		cp.WorkoutName = w.Name
	}
	return &cp, nil
}

func (f *fakeStore) GetActiveSession(_ context.Context, userID uuid.UUID) (*models.WorkoutSession, error) {
	for _, s := range f.sessions {
		if s.UserID == userID && s.Active() {
			cp := *s
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) ListSessions(_ context.Context, userID uuid.UUID, filter storage.SessionFilter) ([]models.WorkoutSession, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	var result []models.WorkoutSession
	for _, s := range f.sessions {
		if s.UserID != userID {
			continue
		}
		if filter.Completed != nil && s.Completed != *filter.Completed {
			continue
		}
		if len(result) < limit {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (f *fakeStore) UpdateSession(_ context.Context, s *models.WorkoutSession) error {
	if _, ok := f.sessions[s.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *s
	cp.Exercises = append([]models.ExercisePerformance(nil), s.Exercises...)
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeStore) GetSessionCounts(_ context.Context, userID uuid.UUID, weekStart time.Time) (*storage.SessionCounts, error) {
	counts := &storage.SessionCounts{}
	for _, s := range f.sessions {
		if s.UserID != userID || !s.Completed {
			continue
		}
		counts.TotalCompleted++
		counts.TotalVolumeKg += s.TotalVolumeKg
		if s.CompletedAt != nil && !s.CompletedAt.Before(weekStart) {
			counts.WeekCompleted++
		}
	}
	return counts, nil
}

func (f *fakeStore) GetCompletionTimes(_ context.Context, userID uuid.UUID) ([]time.Time, error) {
	var times []time.Time
	for _, s := range f.sessions {
		if s.UserID == userID && s.Completed && s.CompletedAt != nil {
			times = append(times, *s.CompletedAt)
		}
	}
	for i := 0; i < len(times); i++ {
		for j := i + 1; j < len(times); j++ {
			if times[j].After(times[i]) {
				times[i], times[j] = times[j], times[i]
			}
		}
	}
	return times, nil
}

func visibleTo(e *models.Exercise, userID uuid.UUID) bool {
	return e.UserID == nil || *e.UserID == userID
}

func ownedBy(e *models.Exercise, userID *uuid.UUID) bool {
	return e.UserID != nil && userID != nil && *e.UserID == *userID
}
