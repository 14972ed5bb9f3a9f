package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/service"
)

// GeneratedWorkout is the JSON document the model is asked to produce.
type GeneratedWorkout struct {
	Name      string              `json:"name"`
	Notes     string              `json:"notes"`
	Exercises []GeneratedExercise `json:"exercises"`
}

// GeneratedExercise is one planned movement in a generated workout.
type GeneratedExercise struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Category     string   `json:"category"`
	MuscleGroups []string `json:"muscle_groups"`
	Sets         *int     `json:"sets"`
	Reps         *int     `json:"reps"`
	RestSeconds  *int     `json:"rest_seconds"`
	Notes        string   `json:"notes"`
}

// GenerateResult is the generation outcome. When the model's output parses,
// WorkoutData holds the plan and Workout the saved document (if requested).
// When it does not, WorkoutData holds the raw text and Saved is false.
type GenerateResult struct {
	WorkoutData any             `json:"workout_data"`
	Workout     *models.Workout `json:"workout,omitempty"`
	Saved       bool            `json:"saved"`
}

// GenerateWorkout asks the model for a workout plan tailored to the user.
// Parsed plans have their exercises resolved against the user's catalog
// (same-named entries are reused) and are optionally saved to the library.
func (g *Gateway) GenerateWorkout(ctx context.Context, userID uuid.UUID, prompt string, save bool) (*GenerateResult, error) {
	user, err := g.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	raw, err := g.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(user) + "\n\n" + generateInstructions},
		{Role: openai.ChatMessageRoleUser, Content: generateUserPrompt(prompt)},
	})
	if err != nil {
		return nil, err
	}

	plan, ok := parseGeneratedWorkout(raw)
	if !ok {
		g.log.Warn("generated workout did not parse, returning raw text")
		return &GenerateResult{WorkoutData: raw, Saved: false}, nil
	}

	result := &GenerateResult{WorkoutData: plan}
	if !save {
		return result, nil
	}

	entries := make([]models.WorkoutExercise, 0, len(plan.Exercises))
	for _, ge := range plan.Exercises {
		exercise, err := g.svc.ResolveExercise(ctx, userID, service.ExerciseInput{
			Name:         ge.Name,
			Type:         ge.Type,
			Category:     ge.Category,
			MuscleGroups: ge.MuscleGroups,
			DefaultSets:  ge.Sets,
			DefaultReps:  ge.Reps,
			RestSeconds:  ge.RestSeconds,
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.WorkoutExercise{
			ExerciseID:  exercise.ID,
			Sets:        ge.Sets,
			Reps:        ge.Reps,
			RestSeconds: ge.RestSeconds,
			Notes:       ge.Notes,
		})
	}

	workout, err := g.svc.CreateWorkout(ctx, userID, service.WorkoutInput{
		Name:      plan.Name,
		Notes:     plan.Notes,
		Exercises: entries,
	})
	if err != nil {
		return nil, err
	}
	result.Workout = workout
	result.Saved = true
	return result, nil
}

const generateInstructions = `Respond with a single JSON object and nothing else, using this shape:
{"name": "...", "notes": "...", "exercises": [{"name": "...", "type": "reps|time|cardio", "category": "...", "muscle_groups": ["..."], "sets": 3, "reps": 10, "rest_seconds": 90, "notes": "..."}]}
Do not wrap the JSON in markdown.`

func generateUserPrompt(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return "Create a workout for my next training session."
	}
	return "Create a workout: " + prompt
}

// parseGeneratedWorkout extracts a plan from model output, tolerating
// markdown code fences around the JSON.
func parseGeneratedWorkout(raw string) (*GeneratedWorkout, bool) {
	cleaned := stripCodeFences(raw)

	var plan GeneratedWorkout
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, false
	}
	if plan.Name == "" || len(plan.Exercises) == 0 {
		return nil, false
	}
	for _, e := range plan.Exercises {
		if e.Name == "" {
			return nil, false
		}
	}
	return &plan, true
}

// stripCodeFences removes a surrounding ``` or ```json fence if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// Drop the language tag line ("json").
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
