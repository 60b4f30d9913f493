package cache

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/kokifi/lottery/pkg/cache"
)

// MemoryCache implements cache.ConfigCache in process memory.
type MemoryCache struct {
	mu        sync.RWMutex
	values    map[string]string
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now}
}

// Get returns a copy of the cached rows.
func (c *MemoryCache) Get(_ context.Context) (map[string]string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.values == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return maps.Clone(c.values), true, nil
}

// Set stores a copy of values for ttl.
func (c *MemoryCache) Set(_ context.Context, values map[string]string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = maps.Clone(values)
	c.expiresAt = c.now().Add(ttl)
	return nil
}

// Invalidate drops the cached rows.
func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = nil
	return nil
}

var _ cache.ConfigCache = (*MemoryCache)(nil)
