// package repositories implements local persistence, currently a TTL cache
// for remote list snapshots backed by SQLite.
package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Cache stores JSON-encoded values keyed by name, each stamped with its
// write time. Readers decide freshness with their own TTL; stale rows are
// deleted lazily on read.
type Cache struct {
	db *sql.DB
}

// CacheEntry describes one cached value for status reporting.
type CacheEntry struct {
	Key      string    `json:"key"`
	Size     int       `json:"size"`
	CachedAt time.Time `json:"cached_at"`
}

// NewCache creates a cache repository on an open database.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// Setup creates the cache table if it does not exist.
func (c *Cache) Setup() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			cached_at INTEGER NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create cache table: %w", err)
	}
	return nil
}

// Get loads the value for key into dest if a row exists and is younger
// than ttl. It reports whether dest was populated; an expired row is
// deleted and reported as a miss.
func (c *Cache) Get(key string, ttl time.Duration, dest any) (bool, error) {
	var value []byte
	var cachedAt int64
	err := c.db.QueryRow("SELECT value, cached_at FROM cache WHERE key = ?", key).
		Scan(&value, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache: %w", err)
	}

	if time.Since(time.Unix(cachedAt, 0)) > ttl {
		_, _ = c.db.Exec("DELETE FROM cache WHERE key = ?", key)
		return false, nil
	}

	if err := json.Unmarshal(value, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value: %w", err)
	}
	return true, nil
}

// Put stores value under key, replacing any existing row.
func (c *Cache) Put(key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO cache (key, value, cached_at) VALUES (?, ?, ?)",
		key, encoded, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Invalidate removes the row for key, if any.
func (c *Cache) Invalidate(key string) error {
	if _, err := c.db.Exec("DELETE FROM cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to invalidate cache key: %w", err)
	}
	return nil
}

// Clear removes every cached value.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM cache"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Entries lists all cached values, newest first.
func (c *Cache) Entries() ([]CacheEntry, error) {
	rows, err := c.db.Query("SELECT key, LENGTH(value), cached_at FROM cache ORDER BY cached_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []CacheEntry
	for rows.Next() {
		var entry CacheEntry
		var cachedAt int64
		if err := rows.Scan(&entry.Key, &entry.Size, &cachedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		entry.CachedAt = time.Unix(cachedAt, 0)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
