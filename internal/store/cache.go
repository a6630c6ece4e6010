package store

import (
	"context"
	"time"
)

// cachePrefix namespaces cache entries away from durable records so the
// two can never collide. The historical "catch_" spelling is kept for
// storage-layout compatibility with existing installs.
const cachePrefix = "catch_"

// DefaultTTL is how long a cache entry stays fresh when no explicit
// expiry is given.
const DefaultTTL = 10 * time.Minute

// cacheEntry is the stored envelope. Timeout is milliseconds since the
// Unix epoch, matching the layout older extension versions wrote.
type cacheEntry[T any] struct {
	Data    T     `json:"data"`
	Timeout int64 `json:"timeout"`
}

// Cache is a TTL cache over the namespaced store, intended for
// memoizing expensive or rate-limited external fetches (prices, stock
// quotes, fee estimations). Eviction is lazy: expired entries are
// removed when read, never by a background sweep.
type Cache struct {
	store *Store
	now   func() time.Time
}

// NewCache creates a cache over the given store.
func NewCache(s *Store) *Cache {
	return &Cache{store: s, now: time.Now}
}

// NewCacheWithClock creates a cache with an injected clock for tests.
func NewCacheWithClock(s *Store, now func() time.Time) *Cache {
	return &Cache{store: s, now: now}
}

// GetCached returns the cached value for key. A value past its expiry
// is never returned: the entry is removed and reported absent.
func GetCached[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var zero T

	entry, err := readRaw(ctx, c.store, cachePrefix+key, cacheEntry[T]{})
	if err != nil {
		return zero, false, err
	}
	if entry.Timeout == 0 {
		return zero, false, nil
	}

	if entry.Timeout < c.now().UnixMilli() {
		if err := c.Remove(ctx, key); err != nil {
			return zero, false, err
		}
		return zero, false, nil
	}

	return entry.Data, true, nil
}

// SetCached stores value under key with the default TTL.
func SetCached[T any](ctx context.Context, c *Cache, key string, value T) error {
	return SetCachedUntil(ctx, c, key, value, c.now().Add(DefaultTTL))
}

// SetCachedUntil stores value under key with an explicit expiry.
func SetCachedUntil[T any](ctx context.Context, c *Cache, key string, value T, expiresAt time.Time) error {
	entry := cacheEntry[T]{Data: value, Timeout: expiresAt.UnixMilli()}
	_, err := writeRaw(ctx, c.store, cachePrefix+key, entry)
	return err
}

// Remove deletes the cache entry for key.
func (c *Cache) Remove(ctx context.Context, key string) error {
	if err := c.store.backend.Remove(ctx, cachePrefix+key); err != nil {
		return wrapBackend(err, cachePrefix+key)
	}
	return nil
}
