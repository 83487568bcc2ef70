package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Cache remembers resolved locations in SQLite so repeated lookups skip
// the directory scan.
type Cache struct {
	db *sql.DB
}

// NewCache creates a new location cache.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

func cacheKey(session string) string {
	return "bounds:" + session
}

// Get returns the cached location for session.
// Returns false if not found or expired.
func (c *Cache) Get(ctx context.Context, session string) (Location, bool) {
	var value string
	var expiresAt time.Time

	err := c.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM metadata_cache WHERE key = ?", cacheKey(session),
	).Scan(&value, &expiresAt)
	if err != nil || time.Now().After(expiresAt) {
		return Location{}, false
	}

	var loc Location
	if err := json.Unmarshal([]byte(value), &loc); err != nil {
		return Location{}, false
	}
	return loc, true
}

// Set stores a location with the given TTL.
func (c *Cache) Set(ctx context.Context, session string, loc Location, ttl time.Duration) error {
	value, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO metadata_cache (key, value, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		cacheKey(session), string(value), time.Now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete forgets the location for session.
func (c *Cache) Delete(ctx context.Context, session string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM metadata_cache WHERE key = ?", cacheKey(session))
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Prune removes all expired entries.
// Returns the number of entries removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM metadata_cache WHERE expires_at < ?", time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}
