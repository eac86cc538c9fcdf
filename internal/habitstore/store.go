// Package habitstore owns the in-memory habit collection, the completion
// toggle and the progress queries derived from it.
package habitstore

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/starford/habitus/internal/apperr"
	"github.com/starford/habitus/internal/models"
	"github.com/starford/habitus/internal/pulse"
	"github.com/starford/habitus/internal/week"
)

// Clock returns the current time.
type Clock func() time.Time

// EventKind names a store change.
type EventKind string

// Event kinds emitted to observers.
const (
	EventCompleted    EventKind = "completed"
	EventUncompleted  EventKind = "uncompleted"
	EventPulseCleared EventKind = "pulse_cleared"
	EventCreated      EventKind = "created"
	EventReloaded     EventKind = "reloaded"
	EventWeekStarted  EventKind = "week_started"
	EventSettings     EventKind = "settings"
)

// Event describes a change that already happened. Habit is a snapshot and
// is zero for events that are not about a single habit.
type Event struct {
	Kind      EventKind
	Habit     models.Habit
	Day       int
	WeekStart time.Time
	At        time.Time
}

// EventCallback receives store events. Callbacks run on the caller's
// goroutine after the store lock has been released.
type EventCallback func(Event)

// ToggleResult is the outcome of a completion toggle.
type ToggleResult struct {
	Habit models.Habit `json:"habit"`
	Day   int          `json:"day"`
	// Completed is true when the toggle marked the day done.
	Completed bool `json:"completed"`
}

// Store holds habits keyed by id.
//
// Week policy: completed sets belong to the week that started at weekStart.
// The first operation observed in a later (or earlier) week clears every
// completed set and keeps streaks.
type Store struct {
	mu        sync.RWMutex
	habits    map[int]*models.Habit
	order     []int
	settings  models.Settings
	weekStart time.Time

	now       Clock
	logger    *slog.Logger
	pulseDur  time.Duration
	pulser    *pulse.Pulser
	callbacks []EventCallback
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithPulseDuration sets how long the "just completed" pulse lasts.
func WithPulseDuration(d time.Duration) Option {
	return func(s *Store) { s.pulseDur = d }
}

// WithEventCallback registers an observer. May be given more than once.
func WithEventCallback(cb EventCallback) Option {
	return func(s *Store) { s.callbacks = append(s.callbacks, cb) }
}

// New builds a store from seed records. Seed records are validated and
// their completed sets normalised (sorted, deduplicated).
func New(seed []models.Habit, opts ...Option) (*Store, error) {
	s := &Store{
		habits:   make(map[int]*models.Habit, len(seed)),
		settings: models.DefaultSettings(),
		now:      time.Now,
		logger:   slog.Default(),
		pulseDur: pulse.DefaultDuration,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, rec := range seed {
		h, err := normalize(rec)
		if err != nil {
			return nil, err
		}
		if _, dup := s.habits[h.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate habit id %d", apperr.ErrValidation, h.ID)
		}
		s.insertLocked(h)
	}

	s.weekStart = week.Start(s.now())
	s.pulser = pulse.New(s.pulseDur, s.pulseExpired)
	return s, nil
}

// Close cancels pending pulses.
func (s *Store) Close() {
	s.pulser.Stop()
}

// Subscribe registers an observer after construction.
func (s *Store) Subscribe(cb EventCallback) {
	s.mu.Lock()
	s.callbacks = append(s.callbacks, cb)
	s.mu.Unlock()
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Today returns the day slot of the current day.
func (s *Store) Today() int {
	return week.Slot(s.now())
}

// Toggle flips completion of the current day for habitID.
func (s *Store) Toggle(habitID int) (ToggleResult, error) {
	return s.ToggleCompletion(habitID, s.Today())
}

// ToggleCompletion flips completion of day for habitID. Unmarking a day
// decrements the streak (never below zero) and drops any running pulse;
// marking it increments the streak and starts the pulse for the habit.
func (s *Store) ToggleCompletion(habitID, day int) (ToggleResult, error) {
	if !week.ValidSlot(day) {
		return ToggleResult{}, fmt.Errorf("%w: got %d", apperr.ErrInvalidDaySlot, day)
	}
	s.maybeRollover()

	s.mu.Lock()
	h, ok := s.habits[habitID]
	if !ok {
		s.mu.Unlock()
		return ToggleResult{}, fmt.Errorf("habit %d: %w", habitID, apperr.ErrNotFound)
	}

	var completed bool
	if idx := slices.Index(h.Completed, day); idx >= 0 {
		h.Completed = slices.Delete(h.Completed, idx, idx+1)
		h.Streak = max(h.Streak-1, 0)
	} else {
		h.Completed = append(h.Completed, day)
		slices.Sort(h.Completed)
		h.Streak++
		completed = true
	}
	snap := h.Clone()
	ws := s.weekStart
	s.mu.Unlock()

	kind := EventUncompleted
	if completed {
		kind = EventCompleted
		s.pulser.Trigger(habitID)
	} else {
		s.pulser.Cancel(habitID)
	}
	s.logger.Debug("habit toggled",
		slog.Int("habit_id", habitID),
		slog.Int("day", day),
		slog.String("kind", string(kind)),
		slog.Int("streak", snap.Streak))

	s.emit(Event{Kind: kind, Habit: snap, Day: day, WeekStart: ws})
	return ToggleResult{Habit: snap, Day: day, Completed: completed}, nil
}

// Pulsing reports whether habitID was completed within the pulse window.
func (s *Store) Pulsing(habitID int) bool {
	return s.pulser.Active(habitID)
}

// Habits returns snapshots of all habits in creation order.
func (s *Store) Habits() []models.Habit {
	s.maybeRollover()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Habit, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.habits[id].Clone())
	}
	return out
}

// Habit returns a snapshot of one habit.
func (s *Store) Habit(habitID int) (models.Habit, error) {
	s.maybeRollover()

	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[habitID]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit %d: %w", habitID, apperr.ErrNotFound)
	}
	return h.Clone(), nil
}

// OverallProgress is the percentage of all targets met this week.
func (s *Store) OverallProgress() float64 {
	return OverallProgress(s.Habits())
}

// CurrentWeekDays derives the current week from the clock.
func (s *Store) CurrentWeekDays() []models.Day {
	return week.Days(s.now())
}

// WeekStart returns the start of the week the completed sets belong to.
func (s *Store) WeekStart() time.Time {
	s.maybeRollover()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weekStart
}

// AddHabit creates a habit with a fresh id, zero streak and nothing completed.
func (s *Store) AddHabit(n NewHabit) (models.Habit, error) {
	if err := n.Validate(); err != nil {
		return models.Habit{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	s.mu.Lock()
	id := 1
	if len(s.order) > 0 {
		id = slices.Max(s.order) + 1
	}
	h := models.Habit{
		ID:        id,
		Name:      n.Name,
		Color:     n.Color,
		Target:    n.Target,
		Completed: []int{},
	}
	s.insertLocked(h)
	snap := h.Clone()
	s.mu.Unlock()

	s.logger.Info("habit created", slog.Int("habit_id", id), slog.String("name", n.Name))
	s.emit(Event{Kind: EventCreated, Habit: snap})
	return snap, nil
}

// ApplySeed upserts habit metadata from seed records. Existing habits keep
// their streak and completed set; unknown ids are added as given.
func (s *Store) ApplySeed(records []models.Habit) (added, updated int, err error) {
	normalized := make([]models.Habit, 0, len(records))
	for _, rec := range records {
		h, err := normalize(rec)
		if err != nil {
			return 0, 0, err
		}
		normalized = append(normalized, h)
	}

	s.mu.Lock()
	for _, h := range normalized {
		if cur, ok := s.habits[h.ID]; ok {
			cur.Name = h.Name
			cur.Color = h.Color
			cur.Target = h.Target
			updated++
			continue
		}
		s.insertLocked(h)
		added++
	}
	s.mu.Unlock()

	s.emit(Event{Kind: EventReloaded})
	return added, updated, nil
}

// Settings returns the stored preferences.
func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings validates and replaces the stored preferences.
func (s *Store) UpdateSettings(in models.Settings) (models.Settings, error) {
	if in.Theme == "" {
		in.Theme = models.ThemeDefault
	}
	if err := validateSettings(&in); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	s.mu.Lock()
	s.settings = in
	s.mu.Unlock()

	s.emit(Event{Kind: EventSettings})
	return in, nil
}

func (s *Store) insertLocked(h models.Habit) {
	hc := h.Clone()
	s.habits[h.ID] = &hc
	s.order = append(s.order, h.ID)
}

func (s *Store) maybeRollover() {
	now := s.now()
	start := week.Start(now)

	s.mu.RLock()
	same := s.weekStart.Equal(start)
	s.mu.RUnlock()
	if same {
		return
	}

	s.mu.Lock()
	if s.weekStart.Equal(start) {
		s.mu.Unlock()
		return
	}
	prev := s.weekStart
	s.weekStart = start
	for _, h := range s.habits {
		h.Completed = []int{}
	}
	s.mu.Unlock()

	s.logger.Info("new week started, completions cleared",
		slog.Time("previous_week", prev),
		slog.Time("week_start", start))
	s.emit(Event{Kind: EventWeekStarted, WeekStart: start})
}

func (s *Store) pulseExpired(habitID int) {
	h, err := s.Habit(habitID)
	if err != nil {
		return
	}
	s.emit(Event{Kind: EventPulseCleared, Habit: h})
}

func (s *Store) emit(ev Event) {
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	s.mu.RLock()
	cbs := slices.Clone(s.callbacks)
	s.mu.RUnlock()
	for _, cb := range cbs {
		cb(ev)
	}
}
