// Package cache keeps recently resolved redirects in a BigCache store.
package cache

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/allegro/bigcache"
	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/storage"
)

var ErrInvalidTTL = errors.New("cache ttl must be positive")

// RedirectCache maps short codes to active redirect records.
type RedirectCache struct {
	cache  *bigcache.BigCache
	logger *zap.Logger

	// mu orders Set against Delete so a record read before an invalidation
	// is never written back after it.
	mu         sync.Mutex
	generation uint64
}

// NewRedirectCache creates a cache whose entries live for ttl.
func NewRedirectCache(ttl time.Duration, logger *zap.Logger) (*RedirectCache, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	config := bigcache.Config{
		Shards:           64,
		LifeWindow:       ttl,
		CleanWindow:      ttl,
		MaxEntrySize:     512,
		HardMaxCacheSize: 64,
		Verbose:          false,
	}

	bc, err := bigcache.NewBigCache(config)
	if err != nil {
		return nil, err
	}

	return &RedirectCache{
		cache:  bc,
		logger: logger,
	}, nil
}

// Get returns the cached record for code. Any cache error is a miss.
func (c *RedirectCache) Get(code string) (*storage.Redirect, bool) {
	data, err := c.cache.Get(code)
	if err != nil {
		return nil, false
	}

	var r storage.Redirect
	if err := json.Unmarshal(data, &r); err != nil {
		c.logger.Warn("dropping undecodable cache entry", zap.String("short_code", code), zap.Error(err))
		_ = c.cache.Delete(code)
		return nil, false
	}

	return &r, true
}

// Generation changes on every Delete. Read it before loading a record from
// the store and pass it to Set.
func (c *RedirectCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Set caches r unless Delete ran after generation was read. It reports
// whether r was stored.
func (c *RedirectCache) Set(r *storage.Redirect, generation uint64) bool {
	data, err := json.Marshal(r)
	if err != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return false
	}
	if err := c.cache.Set(r.ShortCode, data); err != nil {
		c.logger.Warn("cache set failed", zap.String("short_code", r.ShortCode), zap.Error(err))
		return false
	}
	return true
}

func (c *RedirectCache) Delete(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	_ = c.cache.Delete(code)
}

// Len returns the number of cached entries.
func (c *RedirectCache) Len() int {
	return c.cache.Len()
}
