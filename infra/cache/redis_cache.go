package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/kokifi/lottery/pkg/cache"
	"github.com/redis/go-redis/v9"
)

const configKey = "system_config"

// RedisConfigCache implements cache.ConfigCache on Redis so several server
// instances share invalidations.
type RedisConfigCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisConfigCache creates a cache from a redis:// URL.
func NewRedisConfigCache(url, prefix string, logger *slog.Logger) (*RedisConfigCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisConfigCacheWithOptions(opt, prefix, logger), nil
}

// NewRedisConfigCacheWithOptions creates a cache from redis.Options.
func NewRedisConfigCacheWithOptions(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisConfigCache {
	return &RedisConfigCache{client: redis.NewClient(opt), prefix: prefix, logger: logger}
}

func (r *RedisConfigCache) key() string {
	return r.prefix + configKey
}

func (r *RedisConfigCache) Get(ctx context.Context) (map[string]string, bool, error) {
	val, err := r.client.Get(ctx, r.key()).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", r.key())
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", r.key(), "error", err)
		return nil, false, err
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(val), &values); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", r.key(), "error", err)
		return nil, false, err
	}
	return values, true, nil
}

func (r *RedisConfigCache) Set(ctx context.Context, values map[string]string, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", r.key(), "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", r.key(), "ttl", ttl)
	return nil
}

func (r *RedisConfigCache) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key()).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "key", r.key(), "error", err)
		return err
	}
	return nil
}

// Close releases the client connections.
func (r *RedisConfigCache) Close() error {
	return r.client.Close()
}

var _ cache.ConfigCache = (*RedisConfigCache)(nil)
