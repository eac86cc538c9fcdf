// Package week derives the Sunday-based week cycle that day slots index into.
package week

import (
	"time"

	"github.com/starford/habitus/internal/models"
)

// Slot bounds.
const (
	FirstSlot = 1
	LastSlot  = 7
)

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Start returns midnight of the Sunday that opens t's week, in t's location.
func Start(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(t.Weekday()))
}

// Slot returns the 1-based day slot of t (Sunday = 1).
func Slot(t time.Time) int {
	return int(t.Weekday()) + 1
}

// ValidSlot reports whether slot is within [1,7].
func ValidSlot(slot int) bool {
	return slot >= FirstSlot && slot <= LastSlot
}

// Days returns the seven day descriptors of the week containing now.
// It is recomputed on every call because it depends on the wall clock.
func Days(now time.Time) []models.Day {
	start := Start(now)
	today := Slot(now)
	days := make([]models.Day, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		days = append(days, models.Day{
			Name:    dayNames[date.Weekday()],
			Date:    date.Day(),
			Slot:    i + 1,
			IsToday: i+1 == today,
		})
	}
	return days
}
