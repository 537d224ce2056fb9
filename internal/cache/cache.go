// Package cache persists encoded programs keyed by their content
// fingerprint. A fresh run of the same program skips re-encoding by
// looking up the fingerprint computed from its source form.
package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// ErrMiss reports a fingerprint with no cached encoding.
var ErrMiss = errors.New("cache miss")

// Entry is one cached encoding.
type Entry struct {
	Fingerprint string
	ProgramName string
	ViperText   string
	RunID       string
	CreatedAt   string
}

// Cache provides durable storage for encoded programs.
// Uses SQLite with WAL mode for concurrent read access.
type Cache struct {
	db    *sql.DB
	runID string
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	runID := uuid.Must(uuid.NewV7()).String()
	slog.Debug("opened encoding cache", "path", path, "run_id", runID)

	return &Cache{
		db:    db,
		runID: runID,
	}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// RunID identifies this cache session. All entries written through this
// Cache carry the same run ID, which makes a run's contributions
// traceable after the fact.
func (c *Cache) RunID() string {
	return c.runID
}

// Put stores an encoding under its fingerprint.
// Uses ON CONFLICT DO NOTHING for idempotency: the fingerprint fixes the
// content, so the first writer wins and later identical writes are
// silently ignored.
func (c *Cache) Put(ctx context.Context, fingerprint, programName, viperText string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO encodings (fingerprint, program_name, viper_text, run_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`, fingerprint, programName, viperText, c.runID)
	if err != nil {
		return fmt.Errorf("put encoding %s: %w", fingerprint, err)
	}
	return nil
}

// Get returns the cached encoding for a fingerprint, or ErrMiss.
func (c *Cache) Get(ctx context.Context, fingerprint string) (Entry, error) {
	var e Entry
	err := c.db.QueryRowContext(ctx, `
		SELECT fingerprint, program_name, viper_text, run_id, created_at
		FROM encodings
		WHERE fingerprint = ?
	`, fingerprint).Scan(&e.Fingerprint, &e.ProgramName, &e.ViperText, &e.RunID, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("get encoding %s: %w", fingerprint, ErrMiss)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get encoding %s: %w", fingerprint, err)
	}
	return e, nil
}

// History returns all cached encodings of a program by name, ordered
// deterministically: ORDER BY created_at ASC, fingerprint ASC COLLATE
// BINARY.
//
// Returns an empty slice (not nil) if no entries exist for the name.
func (c *Cache) History(ctx context.Context, programName string) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT fingerprint, program_name, viper_text, run_id, created_at
		FROM encodings
		WHERE program_name = ?
		ORDER BY created_at ASC, fingerprint COLLATE BINARY ASC
	`, programName)
	if err != nil {
		return nil, fmt.Errorf("query encodings: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Fingerprint, &e.ProgramName, &e.ViperText, &e.RunID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan encoding: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate encodings: %w", err)
	}
	return entries, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
