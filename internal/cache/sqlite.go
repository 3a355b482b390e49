package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache (
	key TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expires_at REAL NOT NULL,
	created_at REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_expires_at ON cache(expires_at);
`

// SQLiteBackend persists cache entries in a single sqlite table.
// Survives restarts and is safe to share between runs.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the cache database at path and applies
// the schema.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	return NewSQLiteBackend(db)
}

// NewSQLiteBackend wraps an existing database handle, applying the schema.
func NewSQLiteBackend(db *sql.DB) (*SQLiteBackend, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Get returns the payload for key if present and unexpired.
func (b *SQLiteBackend) Get(key string) ([]byte, bool, error) {
	now := float64(time.Now().UnixNano()) / 1e9

	var data []byte
	err := b.db.QueryRow(
		"SELECT data FROM cache WHERE key = ? AND expires_at > ?",
		key, now,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, true, nil
}

// Set upserts the payload for key.
func (b *SQLiteBackend) Set(key string, data []byte, expiresAt time.Time) error {
	now := float64(time.Now().UnixNano()) / 1e9
	expires := float64(expiresAt.UnixNano()) / 1e9

	_, err := b.db.Exec(
		"INSERT OR REPLACE INTO cache (key, data, expires_at, created_at) VALUES (?, ?, ?, ?)",
		key, data, expires, now,
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for key.
func (b *SQLiteBackend) Delete(key string) error {
	_, err := b.db.Exec("DELETE FROM cache WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (b *SQLiteBackend) Clear() error {
	_, err := b.db.Exec("DELETE FROM cache")
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// DeleteExpired removes all rows with expires_at in the past.
// Returns the number of rows deleted.
func (b *SQLiteBackend) DeleteExpired() (int64, error) {
	now := float64(time.Now().UnixNano()) / 1e9

	result, err := b.db.Exec("DELETE FROM cache WHERE expires_at < ?", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// Close closes the underlying database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
