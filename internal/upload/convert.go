package upload

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// SessionExport is one exported workout session as written by the app's
// history export. One file holds one session.
type SessionExport struct {
	WorkoutName   string           `json:"workout_name"`
	StartedAt     time.Time        `json:"started_at"`
	Completed     bool             `json:"completed"`
	Abandoned     bool             `json:"abandoned"`
	AbandonReason string           `json:"abandon_reason"`
	Notes         string           `json:"notes"`
	Exercises     []ExerciseExport `json:"exercises"`
}

// ExerciseExport is one performed exercise in an export, identified by name
// because exports carry no server ids.
type ExerciseExport struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Category    string             `json:"category"`
	TotalSets   int                `json:"total_sets"`
	RestSeconds *int               `json:"rest_seconds"`
	Sets        []models.SetRecord `json:"sets"`
}

// ReadExport parses one export file and validates the fields the import
// pipeline depends on.
func ReadExport(path string) (*SessionExport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var export SessionExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := export.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &export, nil
}

// Validate checks the structural constraints the server would reject.
func (e *SessionExport) Validate() error {
	if e.WorkoutName == "" {
		return fmt.Errorf("workout_name is required")
	}
	if len(e.Exercises) == 0 {
		return fmt.Errorf("at least one exercise is required")
	}
	for i, ex := range e.Exercises {
		if ex.Name == "" {
			return fmt.Errorf("exercise %d has no name", i)
		}
	}
	if e.Completed && e.Abandoned {
		return fmt.Errorf("session cannot be both completed and abandoned")
	}
	return nil
}

// Performances converts the export's exercises into the session update
// payload, resolving exercise names to ids via the given catalog mapping.
// Completed set counts come from the recorded sets.
func (e *SessionExport) Performances(ids map[string]string) ([]map[string]any, error) {
	performed := make([]map[string]any, 0, len(e.Exercises))
	for _, ex := range e.Exercises {
		id, ok := ids[ex.Name]
		if !ok {
			return nil, fmt.Errorf("no catalog id for exercise %q", ex.Name)
		}
		totalSets := ex.TotalSets
		if totalSets < len(ex.Sets) {
			totalSets = len(ex.Sets)
		}
		performed = append(performed, map[string]any{
			"exercise_id":    id,
			"exercise_name":  ex.Name,
			"total_sets":     totalSets,
			"completed_sets": len(ex.Sets),
			"sets":           ex.Sets,
		})
	}
	return performed, nil
}
