package habitstore

import (
	"math"

	"github.com/starford/habitus/internal/models"
)

// OverallProgress returns sum(completed)/sum(target)*100. The result is not
// clamped, so over-achievement reads above 100. Zero total target yields 0.
func OverallProgress(habits []models.Habit) float64 {
	var done, target int
	for _, h := range habits {
		done += len(h.Completed)
		target += h.Target
	}
	if target == 0 {
		return 0
	}
	return float64(done) / float64(target) * 100
}

// HabitProgress returns completed/target*100 for one habit, unclamped.
func HabitProgress(h models.Habit) float64 {
	if h.Target == 0 {
		return 0
	}
	return float64(len(h.Completed)) / float64(h.Target) * 100
}

// RoundPercent rounds a progress value for display.
func RoundPercent(p float64) int {
	return int(math.Round(p))
}
