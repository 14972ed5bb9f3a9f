package models

import (
	"time"

	"github.com/google/uuid"
)

// Exercise types.
const (
	ExerciseTypeReps   = "reps"
	ExerciseTypeTime   = "time"
	ExerciseTypeCardio = "cardio"
)

// Chat roles as stored in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MaxChatHistory is the number of chat_messages rows kept per user (10 turns).
const MaxChatHistory = 20

// User is a registered account with profile and training preferences.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	WeightKg         *float64  `json:"weight_kg,omitempty"`
	HeightCm         *float64  `json:"height_cm,omitempty"`
	Age              *int      `json:"age,omitempty"`
	Equipment        []string  `json:"equipment"`
	Location         string    `json:"location"`
	SessionMinutes   int       `json:"session_minutes"`
	DaysPerWeek      int       `json:"days_per_week"`
	Goals            []string  `json:"goals"`
	CoachPersonality string    `json:"coach_personality"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ChatMessage is one entry of a user's bounded conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Exercise is a movement definition. UserID is nil for predefined (shared)
// exercises; everything else is owned by exactly one user.
type Exercise struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Category        string     `json:"category"`
	MuscleGroups    []string   `json:"muscle_groups"`
	Equipment       []string   `json:"equipment"`
	DefaultSets     *int       `json:"default_sets,omitempty"`
	DefaultReps     *int       `json:"default_reps,omitempty"`
	RestSeconds     *int       `json:"rest_seconds,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	DistanceMeters  *float64   `json:"distance_meters,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// WorkoutExercise is one ordered entry of a workout, referencing an exercise
// with optional per-entry overrides of the exercise defaults.
type WorkoutExercise struct {
	ExerciseID      uuid.UUID `json:"exercise_id"`
	ExerciseName    string    `json:"exercise_name,omitempty"`
	Position        int       `json:"position"`
	Sets            *int      `json:"sets,omitempty"`
	Reps            *int      `json:"reps,omitempty"`
	RestSeconds     *int      `json:"rest_seconds,omitempty"`
	Weight          *string   `json:"weight,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// Workout is a named ordered collection of exercise references.
type Workout struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Name      string            `json:"name"`
	Notes     string            `json:"notes,omitempty"`
	Exercises []WorkoutExercise `json:"exercises"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SetRecord is one performed set. WeightUsed is free text: a number with
// optional units ("20kg", "45 lb") or "corporal" for bodyweight.
type SetRecord struct {
	RepsCompleted *int    `json:"reps_completed,omitempty"`
	WeightUsed    string  `json:"weight_used,omitempty"`
	RestSeconds   *int    `json:"rest_seconds,omitempty"`
	RPE           *int    `json:"rpe,omitempty"` // 1-10
}

// ExercisePerformance is the per-exercise record inside a session: planned vs
// completed set counts plus the individual sets.
type ExercisePerformance struct {
	ExerciseID    uuid.UUID   `json:"exercise_id"`
	ExerciseName  string      `json:"exercise_name"`
	TotalSets     int         `json:"total_sets"`
	CompletedSets int         `json:"completed_sets"`
	Sets          []SetRecord `json:"sets"`
}

// WorkoutSession is one instance of performing a workout.
// State machine: active -> completed | abandoned; both terminal.
type WorkoutSession struct {
	ID                  uuid.UUID             `json:"id"`
	UserID              uuid.UUID             `json:"user_id"`
	WorkoutID           uuid.UUID             `json:"workout_id"`
	WorkoutName         string                `json:"workout_name,omitempty"`
	StartedAt           time.Time             `json:"started_at"`
	CompletedAt         *time.Time            `json:"completed_at,omitempty"`
	Completed           bool                  `json:"completed"`
	Abandoned           bool                  `json:"abandoned"`
	AbandonReason       string                `json:"abandon_reason,omitempty"`
	PerceivedDifficulty *int                  `json:"perceived_difficulty,omitempty"`
	EnergyLevel         *int                  `json:"energy_level,omitempty"`
	MoodAfter           string                `json:"mood_after,omitempty"`
	Notes               string                `json:"notes,omitempty"`
	CompletionPct       float64               `json:"completion_percentage"`
	TotalVolumeKg       float64               `json:"total_volume_kg"`
	TotalReps           int                   `json:"total_reps"`
	DurationMinutes     int                   `json:"total_duration_minutes"`
	Exercises           []ExercisePerformance `json:"exercises_performed"`
}

// Active reports whether the session is still in its non-terminal state.
func (s *WorkoutSession) Active() bool {
	return !s.Completed && !s.Abandoned
}
