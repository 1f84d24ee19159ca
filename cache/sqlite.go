package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Register driver
)

// SQLiteCache is a translation result cache persisted in a SQLite file, so
// results survive restarts of a single process.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLiteCache opens (or creates) the cache database at path.
// If ttlSeconds is 0 or negative, entries never expire.
func NewSQLiteCache(path string, ttlSeconds int) (*SQLiteCache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	// Single connection avoids SQLITE_BUSY on concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, &CacheError{Op: "connect", Cause: err}
	}

	const schema = `CREATE TABLE IF NOT EXISTS translations (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &CacheError{Op: "migrate", Cause: err}
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	return &SQLiteCache{db: db, ttl: ttl}, nil
}

// Get retrieves a value from the cache.
func (c *SQLiteCache) Get(key string) (string, bool) {
	var value string
	var createdAt int64

	err := c.db.QueryRow("SELECT value, created_at FROM translations WHERE key = ?", key).Scan(&value, &createdAt)
	if err != nil {
		// sql.ErrNoRows or a read failure; either way a miss
		return "", false
	}

	if c.expired(createdAt, time.Now()) {
		_, _ = c.db.Exec("DELETE FROM translations WHERE key = ?", key)
		return "", false
	}

	return value, true
}

// Set stores a value in the cache, replacing any previous value.
func (c *SQLiteCache) Set(key string, value string) error {
	_, err := c.db.Exec(`INSERT INTO translations (key, value, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, created_at = excluded.created_at`,
		key, value, time.Now().UnixNano())
	if err != nil {
		return &CacheError{Op: "set", Key: key, Cause: err}
	}
	return nil
}

// Entries returns all non-expired entries as key-value pairs.
func (c *SQLiteCache) Entries() map[string]string {
	result := make(map[string]string)

	rows, err := c.db.Query("SELECT key, value, created_at FROM translations")
	if err != nil {
		return result
	}
	defer rows.Close()

	now := time.Now()
	for rows.Next() {
		var key, value string
		var createdAt int64
		if err := rows.Scan(&key, &value, &createdAt); err != nil {
			continue
		}
		if c.expired(createdAt, now) {
			continue
		}
		result[key] = value
	}

	return result
}

// Prune deletes expired entries and returns how many were removed.
func (c *SQLiteCache) Prune() (int64, error) {
	if c.ttl == 0 {
		return 0, nil
	}

	deadline := time.Now().Add(-c.ttl).UnixNano()
	res, err := c.db.Exec("DELETE FROM translations WHERE created_at < ?", deadline)
	if err != nil {
		return 0, &CacheError{Op: "prune", Cause: err}
	}
	return res.RowsAffected()
}

// Len returns the number of entries in the cache (including expired ones).
func (c *SQLiteCache) Len() int {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM translations").Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

func (c *SQLiteCache) expired(createdAt int64, now time.Time) bool {
	return c.ttl > 0 && now.Sub(time.Unix(0, createdAt)) > c.ttl
}

// Verify SQLiteCache implements TranslationCache
var _ TranslationCache = (*SQLiteCache)(nil)
