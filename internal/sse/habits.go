package sse

import (
	"github.com/starford/habitus/internal/habitstore"
	"github.com/starford/habitus/internal/models"
)

// HabitPayload is the data of habit.* events.
type HabitPayload struct {
	Habit   models.Habit `json:"habit"`
	Day     int          `json:"day,omitempty"`
	Pulsing bool         `json:"pulsing"`
}

// ProgressSource is the subset of the store the observer needs.
type ProgressSource interface {
	OverallProgress() float64
	Pulsing(habitID int) bool
}

// EventType maps a store event kind to its SSE event name.
func EventType(kind habitstore.EventKind) string {
	switch kind {
	case habitstore.EventCompleted:
		return "habit.completed"
	case habitstore.EventUncompleted:
		return "habit.uncompleted"
	case habitstore.EventPulseCleared:
		return "habit.pulse_cleared"
	case habitstore.EventCreated:
		return "habit.created"
	case habitstore.EventReloaded:
		return "habits.reloaded"
	case habitstore.EventWeekStarted:
		return "week.started"
	case habitstore.EventSettings:
		return "settings.updated"
	default:
		return "habit." + string(kind)
	}
}

// HabitObserver returns a store callback that forwards store events to
// connected clients. Events that change completions also carry a progress
// update.
func (b *Broker) HabitObserver(src ProgressSource) habitstore.EventCallback {
	return func(ev habitstore.Event) {
		typ := EventType(ev.Kind)
		switch ev.Kind {
		case habitstore.EventCompleted, habitstore.EventUncompleted, habitstore.EventPulseCleared, habitstore.EventCreated:
			payload := HabitPayload{Habit: ev.Habit, Day: ev.Day, Pulsing: src.Pulsing(ev.Habit.ID)}
			b.PublishHabitEvent(Event{Type: typ, Data: payload}, progressOf(src))
		case habitstore.EventReloaded, habitstore.EventWeekStarted:
			b.PublishHabitEvent(Event{Type: typ, Data: map[string]string{}}, progressOf(src))
		default:
			b.Publish(Event{Type: typ, Data: map[string]string{}})
		}
	}
}

func progressOf(src ProgressSource) ProgressUpdate {
	p := src.OverallProgress()
	return ProgressUpdate{Overall: p, OverallRounded: habitstore.RoundPercent(p)}
}
