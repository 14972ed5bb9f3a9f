package models

import (
	"strconv"
	"strings"
)

// BodyweightMarker is the literal clients send for bodyweight sets.
const BodyweightMarker = "corporal"

// ParseWeight extracts a weight in kg from the free-text weight_used field.
// Digits and dots are kept, everything else stripped ("20kg" -> 20, "45.5 lb"
// -> 45.5). Bodyweight, empty, and unparseable strings all return 0 with
// ok=false: such sets contribute no volume.
func ParseWeight(raw string) (kg float64, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, BodyweightMarker) {
		return 0, false
	}

	var b strings.Builder
	for _, r := range trimmed {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}

	kg, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return kg, true
}

// SetVolume returns the volume contribution of a single set in kg.
// A set without a recorded rep count contributes zero.
func SetVolume(set SetRecord) float64 {
	if set.RepsCompleted == nil {
		return 0
	}
	kg, ok := ParseWeight(set.WeightUsed)
	if !ok {
		return 0
	}
	return kg * float64(*set.RepsCompleted)
}

// SessionTotals sums volume and reps across every recorded set of every
// exercise. This is the canonical rule for total_volume_kg and total_reps;
// all call sites (completion, stats, import) go through here.
func SessionTotals(exercises []ExercisePerformance) (volumeKg float64, reps int) {
	for _, ex := range exercises {
		for _, set := range ex.Sets {
			volumeKg += SetVolume(set)
			if set.RepsCompleted != nil {
				reps += *set.RepsCompleted
			}
		}
	}
	return volumeKg, reps
}

// CompletionPercent returns 100 * completed sets / total sets across the
// given exercises, or 0 when no sets are planned.
func CompletionPercent(exercises []ExercisePerformance) float64 {
	var total, completed int
	for _, ex := range exercises {
		total += ex.TotalSets
		completed += ex.CompletedSets
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(completed) / float64(total)
}
