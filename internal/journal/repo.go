package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/starford/habitus/internal/habitstore"
	"github.com/starford/habitus/internal/models"
)

const dateLayout = "2006-01-02"

// Actions recorded in the journal.
const (
	ActionSeeded      = "seeded"
	ActionCompleted   = "completed"
	ActionUncompleted = "uncompleted"
)

// Entry is one journal row.
type Entry struct {
	ID          string
	HabitID     int
	DaySlot     int
	Action      string
	StreakAfter int
	WeekStart   time.Time
	At          time.Time
}

// Stats are the journal-backed habit statistics.
type Stats struct {
	BestStreak       int `json:"best_streak"`
	TotalCompletions int `json:"total_completions"`
}

// day returns the calendar date a slot refers to.
func (e Entry) day() string {
	return e.WeekStart.AddDate(0, 0, e.DaySlot-1).Format(dateLayout)
}

// Record appends an entry, assigning an id when missing.
func (db *DB) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO entries (id, habit_id, day_slot, day, action, streak_after, week_start, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.HabitID, e.DaySlot, e.day(), e.Action, e.StreakAfter, e.WeekStart.Format(dateLayout), e.At.UTC())
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}
	return nil
}

// RecordSeed writes the baseline of the startup week: one seeded entry per
// completed slot, so totals and best streaks include seeded progress.
// Dates already seeded for a habit are skipped, so repeated startups against
// a file journal leave the statistics unchanged.
func (db *DB) RecordSeed(ctx context.Context, habits []models.Habit, weekStart, at time.Time) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("journal: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO entries (id, habit_id, day_slot, day, action, streak_after, week_start, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("journal: prepare seed insert: %w", err)
	}
	defer stmt.Close()

	for _, h := range habits {
		for _, slot := range h.Completed {
			e := Entry{HabitID: h.ID, DaySlot: slot, WeekStart: weekStart}
			if _, err := stmt.ExecContext(ctx, uuid.NewString(), h.ID, slot, e.day(), ActionSeeded,
				h.Streak, weekStart.Format(dateLayout), at.UTC()); err != nil {
				return fmt.Errorf("journal: insert seed: %w", err)
			}
		}
	}
	return tx.Commit()
}

// Stats combines the journal with the habit's live state. Completions of the
// current week come from h itself; earlier weeks are netted from the log.
func (db *DB) Stats(ctx context.Context, h models.Habit, weekStart time.Time) (Stats, error) {
	var maxStreak, past int
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			COALESCE(MAX(streak_after), 0),
			COALESCE(SUM(CASE WHEN week_start <> ? THEN
				CASE action WHEN ? THEN -1 ELSE 1 END
			ELSE 0 END), 0)
		FROM entries
		WHERE habit_id = ?
	`, weekStart.Format(dateLayout), ActionUncompleted, h.ID).Scan(&maxStreak, &past)
	if err != nil {
		return Stats{}, fmt.Errorf("journal: stats: %w", err)
	}
	return Stats{
		BestStreak:       max(maxStreak, h.Streak),
		TotalCompletions: past + len(h.Completed),
	}, nil
}

// History returns the dates on or after since whose last recorded action
// left the day completed, in ascending order.
func (db *DB) History(ctx context.Context, habitID int, since time.Time) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT day, action
		FROM entries
		WHERE habit_id = ? AND day >= ?
		ORDER BY at, rowid
	`, habitID, since.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("journal: history: %w", err)
	}
	defer rows.Close()

	state := make(map[string]bool)
	for rows.Next() {
		var day, action string
		if err := rows.Scan(&day, &action); err != nil {
			return nil, err
		}
		state[day] = action != ActionUncompleted
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(state))
	for day, done := range state {
		if done {
			out = append(out, day)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Recorder returns a store observer that journals completion toggles.
// Failures are logged and never surface to the toggle caller.
func (db *DB) Recorder(logger *slog.Logger) habitstore.EventCallback {
	return func(ev habitstore.Event) {
		var action string
		switch ev.Kind {
		case habitstore.EventCompleted:
			action = ActionCompleted
		case habitstore.EventUncompleted:
			action = ActionUncompleted
		default:
			return
		}
		err := db.Record(context.Background(), Entry{
			HabitID:     ev.Habit.ID,
			DaySlot:     ev.Day,
			Action:      action,
			StreakAfter: ev.Habit.Streak,
			WeekStart:   ev.WeekStart,
			At:          ev.At,
		})
		if err != nil {
			logger.Warn("journal: record failed",
				slog.Int("habit_id", ev.Habit.ID),
				slog.String("error", err.Error()))
		}
	}
}
