package local

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cadenza/internal/core"
)

// Store persists the scanned track index backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore initializes or connects to the track index and applies
// migrations.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS tracks (
	uri TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	scanned_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tracks_title ON tracks(title);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Upsert inserts or refreshes one track row.
func (s *Store) Upsert(ctx context.Context, track core.Track) error {
	const query = `
INSERT INTO tracks (uri, title, scanned_at) VALUES (?, ?, ?)
ON CONFLICT(uri) DO UPDATE SET title = excluded.title, scanned_at = excluded.scanned_at
`
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, query, track.URI, track.Title, timestamp); err != nil {
		return fmt.Errorf("upsert track %s: %w", track.URI, err)
	}
	return nil
}

// All returns every indexed track ordered by URI.
func (s *Store) All(ctx context.Context) ([]core.Track, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT uri, title FROM tracks ORDER BY uri`)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []core.Track
	for rows.Next() {
		track := core.Track{Source: className}
		if err := rows.Scan(&track.URI, &track.Title); err != nil {
			return nil, fmt.Errorf("scan track row: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}

// Count returns the number of indexed tracks.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tracks: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
