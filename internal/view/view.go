// Package view builds the read-only projections shown by the dashboard and
// the habit detail screen. Both read the same store, so a habit selected on
// the dashboard always shows the same streak and completions in its detail.
package view

import (
	"context"
	"time"

	"github.com/starford/habitus/internal/habitstore"
	"github.com/starford/habitus/internal/journal"
	"github.com/starford/habitus/internal/models"
)

// Toggle button labels.
const (
	LabelComplete   = "Complete Today"
	LabelIncomplete = "Mark Today As Incomplete"
)

// Store is the part of habitstore.Store used by views.
type Store interface {
	Habits() []models.Habit
	Habit(id int) (models.Habit, error)
	CurrentWeekDays() []models.Day
	Today() int
	Pulsing(id int) bool
	WeekStart() time.Time
}

// StatsSource supplies journal-backed statistics.
type StatsSource interface {
	Stats(ctx context.Context, h models.Habit, weekStart time.Time) (journal.Stats, error)
}

// Progress is a percentage in raw and display form.
type Progress struct {
	Percent float64 `json:"percent"`
	Rounded int     `json:"rounded"`
}

// HabitCard is one habit row on the dashboard.
type HabitCard struct {
	models.Habit
	DoneToday bool     `json:"done_today"`
	Pulsing   bool     `json:"pulsing"`
	Progress  Progress `json:"progress"`
}

// Dashboard is the main screen.
type Dashboard struct {
	Overall Progress     `json:"overall"`
	Week    []models.Day `json:"week"`
	Habits  []HabitCard  `json:"habits"`
}

// WeekDay is a week day annotated with the habit's completion.
type WeekDay struct {
	models.Day
	Completed bool `json:"completed"`
}

// Detail is the habit detail screen.
type Detail struct {
	HabitCard
	Week        []WeekDay     `json:"week"`
	Stats       journal.Stats `json:"stats"`
	ToggleLabel string        `json:"toggle_label"`
}

// Builder assembles views from the store and the journal.
type Builder struct {
	store Store
	stats StatsSource
}

// NewBuilder creates a Builder. stats may be nil, in which case statistics
// fall back to the live habit values.
func NewBuilder(store Store, stats StatsSource) *Builder {
	return &Builder{store: store, stats: stats}
}

// NewProgress wraps a raw percentage.
func NewProgress(p float64) Progress {
	return Progress{Percent: p, Rounded: habitstore.RoundPercent(p)}
}

// Dashboard builds the dashboard projection.
func (b *Builder) Dashboard() Dashboard {
	habits := b.store.Habits()
	today := b.store.Today()
	cards := make([]HabitCard, 0, len(habits))
	for _, h := range habits {
		cards = append(cards, b.card(h, today))
	}
	return Dashboard{
		Overall: NewProgress(habitstore.OverallProgress(habits)),
		Week:    b.store.CurrentWeekDays(),
		Habits:  cards,
	}
}

// Detail builds the detail projection of one habit.
func (b *Builder) Detail(ctx context.Context, id int) (Detail, error) {
	h, err := b.store.Habit(id)
	if err != nil {
		return Detail{}, err
	}
	today := b.store.Today()

	days := b.store.CurrentWeekDays()
	week := make([]WeekDay, 0, len(days))
	for _, d := range days {
		week = append(week, WeekDay{Day: d, Completed: h.IsCompleted(d.Slot)})
	}

	stats := journal.Stats{BestStreak: h.Streak, TotalCompletions: len(h.Completed)}
	if b.stats != nil {
		stats, err = b.stats.Stats(ctx, h, b.store.WeekStart())
		if err != nil {
			return Detail{}, err
		}
	}

	label := LabelComplete
	if h.IsCompleted(today) {
		label = LabelIncomplete
	}

	return Detail{
		HabitCard:   b.card(h, today),
		Week:        week,
		Stats:       stats,
		ToggleLabel: label,
	}, nil
}

func (b *Builder) card(h models.Habit, today int) HabitCard {
	return HabitCard{
		Habit:     h,
		DoneToday: h.IsCompleted(today),
		Pulsing:   b.store.Pulsing(h.ID),
		Progress:  NewProgress(habitstore.HabitProgress(h)),
	}
}
