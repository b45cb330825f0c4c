// Package persistence provides the SQLite event chronicle.
// Only notable events and a few metadata keys are stored; world state is not.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hamlet/internal/engine"
)

// ErrNoMeta is returned by GetMeta for an unknown key.
var ErrNoMeta = errors.New("meta key not found")

// DB wraps a SQLite connection for the chronicle.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_events_category ON events(category);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveEvents appends events to the database in one transaction.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex("INSERT INTO events (tick, description, category) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(e.Tick, e.Description, e.Category); err != nil {
			return fmt.Errorf("insert event at %d: %w", e.Tick, err)
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
// A non-empty category restricts the result to that category.
func (db *DB) RecentEvents(limit int, category string) ([]engine.Event, error) {
	var events []engine.Event
	var err error
	if category == "" {
		err = db.conn.Select(&events,
			"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
			limit,
		)
	} else {
		err = db.conn.Select(&events,
			"SELECT tick, description, category FROM events WHERE category = ? ORDER BY id DESC LIMIT ?",
			category, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	return events, nil
}

// EventCounts returns the number of stored events per category.
func (db *DB) EventCounts() (map[string]int, error) {
	var rows []struct {
		Category string `db:"category"`
		N        int    `db:"n"`
	}
	if err := db.conn.Select(&rows, "SELECT category, COUNT(*) AS n FROM events GROUP BY category"); err != nil {
		return nil, fmt.Errorf("event counts: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.N
	}
	return counts, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("save meta %q: %w", key, err)
	}
	return nil
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get meta %q: %w", key, ErrNoMeta)
	}
	if err != nil {
		return "", fmt.Errorf("get meta %q: %w", key, err)
	}
	return value, nil
}

// Flush appends events and records the tick they were drained at.
// It is shaped to serve as an engine flush hook.
func (db *DB) Flush(tick uint64, events []engine.Event) error {
	if err := db.SaveEvents(events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_tick", strconv.FormatUint(tick, 10)); err != nil {
		return err
	}
	slog.Debug("chronicle flushed", "events", len(events), "tick", tick)
	return nil
}
