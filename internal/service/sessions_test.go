package service

import (
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newTestService returns a Service over a fresh fake store with a frozen
// clock, plus a user owning one squat/bench workout.
func newTestService(t *testing.T) (*Service, *fakeStore, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := newFakeStore()
	svc := New(store, testLogger())
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }

	userID := uuid.New()
	store.users[userID] = &models.User{ID: userID, Email: "a@b.c", Username: "a"}

	squat, err := svc.CreateExercise(context.Background(), userID, ExerciseInput{
		Name: "Squat", Type: "reps", DefaultSets: intPtr(5),
	})
	if err != nil {
		t.Fatal(err)
	}
	bench, err := svc.CreateExercise(context.Background(), userID, ExerciseInput{
		Name: "Bench Press", Type: "reps",
	})
	if err != nil {
		t.Fatal(err)
	}

	three := 3
	workout, err := svc.CreateWorkout(context.Background(), userID, WorkoutInput{
		Name: "Leg Day",
		Exercises: []models.WorkoutExercise{
			{ExerciseID: squat.ID},
			{ExerciseID: bench.ID, Sets: &three},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return svc, store, userID, workout.ID
}

func intPtr(n int) *int { return &n }

// TestStartSessionSeeding verifies total_sets seeding: entry override wins,
// then the exercise default, then 1.
func TestStartSessionSeeding(t *testing.T) {
	svc, _, userID, workoutID := newTestService(t)

	session, err := svc.StartSession(context.Background(), userID, workoutID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if len(session.Exercises) != 2 {
		t.Fatalf("performances = %d, want 2", len(session.Exercises))
	}
	if session.Exercises[0].TotalSets != 5 {
		t.Errorf("squat total_sets = %d, want 5 (exercise default)", session.Exercises[0].TotalSets)
	}
	if session.Exercises[1].TotalSets != 3 {
		t.Errorf("bench total_sets = %d, want 3 (entry override)", session.Exercises[1].TotalSets)
	}
	if session.Exercises[0].CompletedSets != 0 {
		t.Errorf("completed_sets = %d, want 0", session.Exercises[0].CompletedSets)
	}
	if !session.Active() {
		t.Error("new session should be active")
	}
}

// TestStartSessionConflict verifies the one-active-session-per-user rule:
// a second start while one session is active fails with a 400-class error.
func TestStartSessionConflict(t *testing.T) {
	svc, _, userID, workoutID := newTestService(t)

	if _, err := svc.StartSession(context.Background(), userID, workoutID); err != nil {
		t.Fatalf("first start: %v", err)
	}

	_, err := svc.StartSession(context.Background(), userID, workoutID)
	if err == nil {
		t.Fatal("second start should fail")
	}
	if StatusOf(err) != 400 {
		t.Errorf("status = %d, want 400", StatusOf(err))
	}
}

// TestStartSessionForeignWorkout verifies that starting a session against a
// workout the caller does not own fails with NotFound rather than silently
// substituting another workout.
func TestStartSessionForeignWorkout(t *testing.T) {
	svc, store, _, workoutID := newTestService(t)

	otherUser := uuid.New()
	store.users[otherUser] = &models.User{ID: otherUser}

	_, err := svc.StartSession(context.Background(), otherUser, workoutID)
	if err == nil {
		t.Fatal("start with foreign workout should fail")
	}
	if StatusOf(err) != 404 {
		t.Errorf("status = %d, want 404", StatusOf(err))
	}
}

// TestUpdateSessionCompletion verifies the completion percentage rule:
// total_sets [3,4] with completed [3,2] yields 100*5/7.
func TestUpdateSessionCompletion(t *testing.T) {
	svc, _, userID, workoutID := newTestService(t)

	session, err := svc.StartSession(context.Background(), userID, workoutID)
	if err != nil {
		t.Fatal(err)
	}

	performed := []models.ExercisePerformance{
		{ExerciseID: session.Exercises[0].ExerciseID, TotalSets: 3, CompletedSets: 3},
		{ExerciseID: session.Exercises[1].ExerciseID, TotalSets: 4, CompletedSets: 2},
	}
	updated, err := svc.UpdateSession(context.Background(), session.ID, userID, performed)
	if err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	want := 100.0 * 5 / 7
	if math.Abs(updated.CompletionPct-want) > 0.01 {
		t.Errorf("completion = %v, want %v", updated.CompletionPct, want)
	}
}

// TestCompleteSessionTotals verifies that completing a session recomputes
// volume and reps from the recorded sets via the canonical weight rule.
func TestCompleteSessionTotals(t *testing.T) {
	svc, _, userID, workoutID := newTestService(t)

	session, err := svc.StartSession(context.Background(), userID, workoutID)
	if err != nil {
		t.Fatal(err)
	}

	performed := []models.ExercisePerformance{
		{
			ExerciseID:    session.Exercises[0].ExerciseID,
			TotalSets:     2,
			CompletedSets: 2,
			Sets: []models.SetRecord{
				{WeightUsed: "10kg", RepsCompleted: intPtr(5)},
				{WeightUsed: "corporal", RepsCompleted: intPtr(8)},
			},
		},
	}
	if _, err := svc.UpdateSession(context.Background(), session.ID, userID, performed); err != nil {
		t.Fatal(err)
	}

	diff := 7
	done, err := svc.CompleteSession(context.Background(), session.ID, userID, CompletionInput{
		PerceivedDifficulty: &diff,
		MoodAfter:           "great",
	})
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	if !done.Completed || done.Abandoned {
		t.Errorf("state = completed:%v abandoned:%v, want completed only", done.Completed, done.Abandoned)
	}
	if done.TotalVolumeKg != 50 {
		t.Errorf("volume = %v, want 50", done.TotalVolumeKg)
	}
	if done.TotalReps != 13 {
		t.Errorf("reps = %v, want 13", done.TotalReps)
	}
	if done.CompletedAt == nil {
		t.Error("completed_at not stamped")
	}
}

// TestTerminalStatesExclusive verifies that complete and abandon are mutually
// exclusive terminal transitions and that no update succeeds afterwards.
func TestTerminalStatesExclusive(t *testing.T) {
	svc, _, userID, workoutID := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, userID, workoutID)
	if err != nil {
		t.Fatal(err)
	}

	done, err := svc.CompleteSession(ctx, session.ID, userID, CompletionInput{})
	if err != nil {
		t.Fatal(err)
	}
	if done.Abandoned {
		t.Error("completed session must not be abandoned")
	}

	if _, err := svc.AbandonSession(ctx, session.ID, userID, "tired"); err == nil {
		t.Error("abandon after complete should fail")
	}
	if _, err := svc.UpdateSession(ctx, session.ID, userID, nil); err == nil {
		t.Error("update after complete should fail")
	}
	if _, err := svc.CompleteSession(ctx, session.ID, userID, CompletionInput{}); err == nil {
		t.Error("double complete should fail")
	}

	// Abandon path: the other terminal state behaves the same way.
	session2, err := svc.StartSession(ctx, userID, workoutID)
	if err != nil {
		t.Fatal(err)
	}
	gone, err := svc.AbandonSession(ctx, session2.ID, userID, "injury")
	if err != nil {
		t.Fatal(err)
	}
	if gone.Completed {
		t.Error("abandoned session must not be completed")
	}
	if gone.AbandonReason != "injury" {
		t.Errorf("abandon_reason = %q, want %q", gone.AbandonReason, "injury")
	}
	if _, err := svc.CompleteSession(ctx, session2.ID, userID, CompletionInput{}); err == nil {
		t.Error("complete after abandon should fail")
	}
}

// TestAbandonLeavesTotals verifies that abandoning does not recompute
// volume or rep totals.
func TestAbandonLeavesTotals(t *testing.T) {
	svc, _, userID, workoutID := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, userID, workoutID)
	if err != nil {
		t.Fatal(err)
	}

	performed := []models.ExercisePerformance{
		{
			ExerciseID: session.Exercises[0].ExerciseID,
			Sets:       []models.SetRecord{{WeightUsed: "100kg", RepsCompleted: intPtr(10)}},
		},
	}
	if _, err := svc.UpdateSession(ctx, session.ID, userID, performed); err != nil {
		t.Fatal(err)
	}

	gone, err := svc.AbandonSession(ctx, session.ID, userID, "out of time")
	if err != nil {
		t.Fatal(err)
	}
	if gone.TotalVolumeKg != 0 || gone.TotalReps != 0 {
		t.Errorf("totals = (%v, %v), want untouched zeros", gone.TotalVolumeKg, gone.TotalReps)
	}
}

// TestCompleteValidatesScales verifies the 1-10 range check on the
// completion feedback fields.
func TestCompleteValidatesScales(t *testing.T) {
	svc, _, userID, workoutID := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, userID, workoutID)
	if err != nil {
		t.Fatal(err)
	}

	eleven := 11
	_, err = svc.CompleteSession(ctx, session.ID, userID, CompletionInput{PerceivedDifficulty: &eleven})
	if err == nil {
		t.Fatal("difficulty 11 should fail validation")
	}
	if StatusOf(err) != 400 {
		t.Errorf("status = %d, want 400", StatusOf(err))
	}
}

// TestStatsStreak verifies the dashboard aggregation end to end: counts,
// volume sum, and the gap-terminated streak.
func TestStatsStreak(t *testing.T) {
	svc, store, userID, workoutID := newTestService(t)
	ctx := context.Background()

	now := svc.now()
	// Completed sessions today, yesterday, and 3 days ago (gap at day 2).
	for _, daysAgo := range []int{0, 1, 3} {
		completedAt := now.AddDate(0, 0, -daysAgo)
		id := uuid.New()
		store.sessions[id] = &models.WorkoutSession{
			ID: id, UserID: userID, WorkoutID: workoutID,
			StartedAt: completedAt.Add(-time.Hour), CompletedAt: &completedAt,
			Completed: true, TotalVolumeKg: 100,
		}
	}

	stats, err := svc.GetStats(ctx, userID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats.TotalCompleted != 3 {
		t.Errorf("total_completed = %d, want 3", stats.TotalCompleted)
	}
	if stats.CurrentStreak != 2 {
		t.Errorf("current_streak = %d, want 2", stats.CurrentStreak)
	}
	if stats.TotalVolumeKg != 300 {
		t.Errorf("total_volume = %v, want 300", stats.TotalVolumeKg)
	}
}
