package cache

import (
	"context"
	"time"
)

// ConfigCache holds the system_config rows between reads.
type ConfigCache interface {
	// Get returns the cached rows. ok is false on a miss or after expiry.
	Get(ctx context.Context) (values map[string]string, ok bool, err error)
	Set(ctx context.Context, values map[string]string, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
