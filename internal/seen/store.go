package seen

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS seen_postings (
	key        TEXT PRIMARY KEY,
	first_seen DATETIME NOT NULL
)`

// Store persists seen-state in a local SQLite database. A database file
// that does not exist yet is an empty state; a present-but-unreadable one is
// a hard error, never silently treated as empty.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the seen-state database at path. Pass ":memory:"
// for an in-memory database (used by tests).
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating seen-state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening seen-state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging seen-state database: %w", err)
	}

	// Single connection avoids "database is locked" errors; this is a
	// single-user local tool, one run owns the state at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen-state schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the full seen-state into memory.
func (s *Store) Load() (*State, error) {
	rows, err := s.db.Query("SELECT key, first_seen FROM seen_postings")
	if err != nil {
		return nil, fmt.Errorf("loading seen-state: %w", err)
	}
	defer rows.Close()

	state := NewState()
	for rows.Next() {
		var key string
		var firstSeen time.Time
		if err := rows.Scan(&key, &firstSeen); err != nil {
			return nil, fmt.Errorf("scanning seen-state row: %w", err)
		}
		state.firstSeen[key] = firstSeen
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading seen-state: %w", err)
	}

	return state, nil
}

// Save writes the state in one transaction. Existing rows keep their
// first-seen timestamp; either the whole state lands or nothing changes.
func (s *Store) Save(state *State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seen-state transaction: %w", err)
	}

	for key, firstSeen := range state.firstSeen {
		if _, err := tx.Exec(
			"INSERT INTO seen_postings (key, first_seen) VALUES (?, ?) ON CONFLICT(key) DO NOTHING",
			key, firstSeen.UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("saving seen-state key %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seen-state: %w", err)
	}
	return nil
}
