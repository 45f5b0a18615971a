// Package cache provides a TTL key-value cache persisted to a single JSON file.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is a stored value with its absolute expiry time.
type Entry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expires_at"` // unix seconds
}

// Cache is a write-through TTL store. Every mutation rewrites the whole
// backing file; a missing or corrupt file degrades to a cold cache.
type Cache struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	path    string
	entries map[string]Entry
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source. Used by tests to advance past TTLs.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache backed by the file at path. A load failure is not
// fatal; the cache starts empty and logs the reason.
func New(logger *zap.Logger, path string, opts ...Option) *Cache {
	c := &Cache{
		logger:  logger,
		path:    path,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.load()
	return c
}

// Get returns the raw value for key, or false if the key is absent or
// expired. An expired entry is evicted and the store persisted. The whole
// read-check-evict sequence holds the write lock so concurrent expiring
// reads cannot double-evict.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if c.now().Unix() > entry.ExpiresAt {
		delete(c.entries, key)
		c.persist()
		return nil, false
	}

	return entry.Value, true
}

// GetJSON unmarshals the cached value for key into out.
func (c *Cache) GetJSON(key string, out any) bool {
	raw, ok := c.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Warn("Discarding unreadable cache entry",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key with the given TTL, overwriting any existing
// entry, then persists the store. The in-memory entry survives a persist
// failure.
func (c *Cache) Set(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value for %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Value:     raw,
		ExpiresAt: c.now().Add(ttl).Unix(),
	}
	c.persist()

	return nil
}

// Len returns the number of live entries, expired ones included until
// their next read.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// load reads the backing file into memory. Corruption is never fatal.
func (c *Cache) load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("Failed to read cache file, starting cold",
				zap.String("path", c.path), zap.Error(err))
		}
		return
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("Cache file corrupt, starting cold",
			zap.String("path", c.path), zap.Error(err))
		return
	}

	c.entries = entries
	c.logger.Debug("Loaded cache", zap.Int("entries", len(entries)))
}

// persist writes the whole map to the backing file. Callers hold the write
// lock. Failures are logged and swallowed; memory stays authoritative.
func (c *Cache) persist() {
	data, err := json.Marshal(c.entries)
	if err != nil {
		c.logger.Warn("Failed to marshal cache store", zap.Error(err))
		return
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		c.logger.Warn("Failed to persist cache store",
			zap.String("path", c.path), zap.Error(err))
	}
}
