// Package testutil provides shared test helpers for setting up stores and journals.
package testutil

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/habitus/internal/habitstore"
	"github.com/starford/habitus/internal/journal"
	"github.com/starford/habitus/internal/seed"
)

// Wednesday is a fixed clock reading: day slot 4 of the week starting
// Sunday 2026-10-18.
var Wednesday = time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)

// TestJournal creates a temporary journal database that is automatically cleaned up.
func TestJournal(t *testing.T) *journal.DB {
	t.Helper()
	db, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a store seeded with the sample habits, clocked at
// Wednesday, journaling into db when db is non-nil.
func TestStore(t *testing.T, db *journal.DB, opts ...habitstore.Option) *habitstore.Store {
	t.Helper()
	base := []habitstore.Option{
		habitstore.WithClock(func() time.Time { return Wednesday }),
		habitstore.WithPulseDuration(100 * time.Millisecond),
	}
	if db != nil {
		base = append(base, habitstore.WithEventCallback(db.Recorder(slog.Default())))
	}
	store, err := habitstore.New(seed.Default(), append(base, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(store.Close)
	return store
}
