// Package store handles SQLite persistence for the lyrics cache.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// CachedLyrics is a previously fetched lyrics answer.
type CachedLyrics struct {
	Title     string
	Model     string
	Lyrics    string
	Sources   []string
	FetchedAt time.Time
}

// Store wraps SQLite access for cached lyrics.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lyrics_cache (
			title_key TEXT NOT NULL,
			model TEXT NOT NULL,
			title TEXT NOT NULL,
			lyrics TEXT NOT NULL,
			sources TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			PRIMARY KEY (title_key, model)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_lyrics_cache_fetched_at ON lyrics_cache(fetched_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// TitleKey normalizes a song title for cache lookups.
func TitleKey(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// GetLyrics returns cached lyrics for a title and model.
func (s *Store) GetLyrics(ctx context.Context, title, model string) (CachedLyrics, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT title, model, lyrics, sources, fetched_at
		 FROM lyrics_cache
		 WHERE title_key = ? AND model = ?`,
		TitleKey(title), model)
	var cached CachedLyrics
	var sources, fetchedAt string
	if err := row.Scan(&cached.Title, &cached.Model, &cached.Lyrics, &sources, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CachedLyrics{}, false, nil
		}
		return CachedLyrics{}, false, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return CachedLyrics{}, false, err
	}
	cached.FetchedAt = parsed
	if sources != "" {
		cached.Sources = strings.Split(sources, "\n")
	}
	return cached, true, nil
}

// PutLyrics stores or replaces cached lyrics.
func (s *Store) PutLyrics(ctx context.Context, entry CachedLyrics) error {
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lyrics_cache (title_key, model, title, lyrics, sources, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(title_key, model) DO UPDATE SET
			title = excluded.title,
			lyrics = excluded.lyrics,
			sources = excluded.sources,
			fetched_at = excluded.fetched_at`,
		TitleKey(entry.Title),
		entry.Model,
		entry.Title,
		entry.Lyrics,
		strings.Join(entry.Sources, "\n"),
		entry.FetchedAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListLyrics returns cached entries ordered by most recent fetch.
func (s *Store) ListLyrics(ctx context.Context) ([]CachedLyrics, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, model, fetched_at FROM lyrics_cache ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []CachedLyrics
	for rows.Next() {
		var entry CachedLyrics
		var fetchedAt string
		if err := rows.Scan(&entry.Title, &entry.Model, &fetchedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, fetchedAt)
		if err != nil {
			return nil, err
		}
		entry.FetchedAt = parsed
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ClearLyrics removes every cached entry and returns how many were deleted.
func (s *Store) ClearLyrics(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lyrics_cache`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
