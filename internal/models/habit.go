// Package models defines the domain types for habitus.
package models

import "slices"

// Habit is a tracked routine with a weekly completion target.
type Habit struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Target    int    `json:"target"`
	Streak    int    `json:"streak"`
	Completed []int  `json:"completed"`
}

// Clone returns a deep copy so callers never share the Completed slice.
func (h Habit) Clone() Habit {
	h.Completed = slices.Clone(h.Completed)
	if h.Completed == nil {
		h.Completed = []int{}
	}
	return h
}

// IsCompleted reports whether the day slot is marked done.
func (h Habit) IsCompleted(slot int) bool {
	return slices.Contains(h.Completed, slot)
}

// Day describes one day of the current week.
type Day struct {
	Name    string `json:"name"`
	Date    int    `json:"date"`
	Slot    int    `json:"slot"`
	IsToday bool   `json:"is_today"`
}

// Settings holds user preferences. Nothing is scheduled from them.
type Settings struct {
	Theme            string `json:"theme"`
	RemindersEnabled bool   `json:"reminders_enabled"`
	ReminderTime     string `json:"reminder_time"`
}

// Themes accepted by Settings.Theme.
const (
	ThemeDefault = "default"
	ThemeDark    = "dark"
	ThemeLight   = "light"
	ThemeBlue    = "blue"
)

// DefaultSettings mirrors the settings panel defaults.
func DefaultSettings() Settings {
	return Settings{
		Theme:        ThemeDefault,
		ReminderTime: "20:00",
	}
}
