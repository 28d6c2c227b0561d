package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a durable key-value store shared by every session that points at
// the same database file, the on-disk counterpart of browser local storage.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS local_storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		hits INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_local_storage_last_used ON local_storage(last_used);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetItem returns the value stored under key. The boolean is false when the
// key is absent. When the value is found but its hit counter cannot be
// updated, as on a read-only database, the value is returned together with
// the update error.
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE local_storage SET hits = hits + 1, last_used = ? WHERE key = ?`,
		time.Now(), key); err != nil {
		return value, true, fmt.Errorf("failed to record hit: %w", err)
	}

	return value, true, nil
}

// SetItem stores value under key, replacing any previous value.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_storage (key, value, hits, created_at, last_used) VALUES (?, ?, 0, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, last_used = excluded.last_used`,
		key, value, now, now)
	return err
}

// Entry is a row from the local_storage table.
type Entry struct {
	Key       string
	Value     string
	Hits      int
	CreatedAt time.Time
	LastUsed  time.Time
}

// Stats summarises local storage usage.
type Stats struct {
	TotalEntries int
	TotalHits    int
	TotalBytes   int
}

// RemoveItem permanently removes the entry stored under key.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key)
	return err
}

// Clear removes all entries and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM local_storage`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// List returns all entries ordered by most recently used.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, hits, created_at, last_used FROM local_storage ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value, &e.Hits, &e.CreatedAt, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for local storage.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(hits), 0),
			COALESCE(SUM(LENGTH(CAST(value AS BLOB))), 0)
		FROM local_storage`).Scan(
		&stats.TotalEntries,
		&stats.TotalHits,
		&stats.TotalBytes,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
