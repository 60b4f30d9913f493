package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	values := map[string]string{"ticket_price": "50"}
	require.NoError(t, c.Set(ctx, values, time.Minute))
	values["ticket_price"] = "changed"

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "50", got["ticket_price"])

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx)
	assert.False(t, ok, "entry expires after ttl")

	require.NoError(t, c.Set(ctx, values, time.Minute))
	require.NoError(t, c.Invalidate(ctx))
	_, ok, _ = c.Get(ctx)
	assert.False(t, ok)
}

func TestRedisConfigCache_Unreachable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewRedisConfigCacheWithOptions(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}, "test:", logger)
	defer func() { _ = c.Close() }()

	assert.Equal(t, "test:system_config", c.key())
	_, ok, err := c.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisConfigCache_BadURL(t *testing.T) {
	_, err := NewRedisConfigCache("not a url", "kokifi:", slog.Default())
	assert.Error(t, err)
}
