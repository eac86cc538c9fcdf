// Package seed provides the startup habit records, either the built-in
// sample set or a YAML seed file.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/starford/habitus/internal/models"
)

// Default returns the built-in sample habits.
func Default() []models.Habit {
	return []models.Habit{
		{ID: 1, Name: "Morning Meditation", Streak: 5, Target: 7, Completed: []int{1, 2, 3, 4, 5}, Color: "#4CAF50"},
		{ID: 2, Name: "Read 30 minutes", Streak: 3, Target: 7, Completed: []int{2, 4, 6}, Color: "#2196F3"},
		{ID: 3, Name: "Exercise", Streak: 0, Target: 5, Completed: []int{}, Color: "#FF5722"},
		{ID: 4, Name: "Drink 8 cups of water", Streak: 7, Target: 7, Completed: []int{1, 2, 3, 4, 5, 6, 7}, Color: "#9C27B0"},
	}
}

type file struct {
	Habits []record `yaml:"habits"`
}

type record struct {
	ID        int    `yaml:"id"`
	Name      string `yaml:"name"`
	Color     string `yaml:"color"`
	Target    int    `yaml:"target"`
	Streak    int    `yaml:"streak"`
	Completed []int  `yaml:"completed"`
}

// Parse decodes a YAML seed document.
func Parse(data []byte) ([]models.Habit, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: parse: %w", err)
	}
	out := make([]models.Habit, 0, len(f.Habits))
	for _, r := range f.Habits {
		completed := r.Completed
		if completed == nil {
			completed = []int{}
		}
		out = append(out, models.Habit{
			ID:        r.ID,
			Name:      r.Name,
			Color:     r.Color,
			Target:    r.Target,
			Streak:    r.Streak,
			Completed: completed,
		})
	}
	return out, nil
}

// Load reads a seed file. An empty path yields the built-in sample set.
func Load(path string) ([]models.Habit, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}
