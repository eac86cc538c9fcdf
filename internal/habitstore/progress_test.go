package habitstore

import (
	"testing"

	"github.com/starford/habitus/internal/models"
	"github.com/starford/habitus/internal/seed"
)

func TestOverallProgress_Seed(t *testing.T) {
	p := OverallProgress(seed.Default())
	if got := RoundPercent(p); got != 58 {
		t.Errorf("overall = %v (%d), want 58", p, got)
	}
}

func TestOverallProgress_ZeroTargets(t *testing.T) {
	if got := OverallProgress(nil); got != 0 {
		t.Errorf("empty = %v, want 0", got)
	}
	if got := OverallProgress([]models.Habit{{Completed: []int{1}}}); got != 0 {
		t.Errorf("zero target = %v, want 0", got)
	}
}

func TestOverallProgress_OverAchievement(t *testing.T) {
	h := models.Habit{Target: 2, Completed: []int{1, 2, 3, 4}}
	if got := OverallProgress([]models.Habit{h}); got != 200 {
		t.Errorf("overall = %v, want 200", got)
	}
}

func TestHabitProgress(t *testing.T) {
	tests := []struct {
		name string
		h    models.Habit
		want int
	}{
		{"full", models.Habit{Target: 7, Completed: []int{1, 2, 3, 4, 5, 6, 7}}, 100},
		{"none", models.Habit{Target: 5}, 0},
		{"partial", models.Habit{Target: 7, Completed: []int{2, 4, 6}}, 43},
		{"over", models.Habit{Target: 2, Completed: []int{1, 2, 3}}, 150},
		{"zero target", models.Habit{Completed: []int{1}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundPercent(HabitProgress(tt.h)); got != tt.want {
				t.Errorf("progress = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStoreOverallProgress_TracksToggles(t *testing.T) {
	s, _ := newTestStore(t, seed.Default())
	if got := RoundPercent(s.OverallProgress()); got != 58 {
		t.Fatalf("overall = %d, want 58", got)
	}
	if _, err := s.ToggleCompletion(3, 1); err != nil {
		t.Fatal(err)
	}
	// 16/26
	if got := RoundPercent(s.OverallProgress()); got != 62 {
		t.Errorf("overall = %d, want 62", got)
	}
}
