// Package journal keeps an append-only SQLite log of completion toggles.
// Habit state is never restored from it; it only backs statistics and the
// completion history.
package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN keeps the journal in memory for the lifetime of the process.
const MemoryDSN = ":memory:"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id           TEXT PRIMARY KEY,
	habit_id     INTEGER NOT NULL,
	day_slot     INTEGER NOT NULL,
	day          TEXT NOT NULL,
	action       TEXT NOT NULL,
	streak_after INTEGER NOT NULL,
	week_start   TEXT NOT NULL,
	at           DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_habit ON entries(habit_id, at);

-- One seeded baseline row per habit and date, however often the process restarts.
CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_seeded ON entries(habit_id, day) WHERE action = 'seeded';
`

// DB wraps a sql.DB with journal operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the journal database and applies the schema.
// An empty dsn opens an in-memory journal.
func Open(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	params := "?_busy_timeout=5000"
	if dsn != MemoryDSN {
		params += "&_journal_mode=WAL"
	}

	conn, err := sql.Open("sqlite3", dsn+params)
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	if dsn == MemoryDSN {
		// Every connection to :memory: is a separate database.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}
