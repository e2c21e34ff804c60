package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the small key/value surface services need from Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Incr atomically increments the integer at key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
}

// NewRedis connects to redisURL and pings it. An empty URL disables Redis:
// the returned client is nil and callers fall back to no cache and inline jobs.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// NewCache wraps rdb; a nil client yields a cache that never hits.
func NewCache(rdb *redis.Client) Cache {
	if rdb == nil {
		return noCache{}
	}
	return redisCache{rdb: rdb}
}

type redisCache struct{ rdb *redis.Client }

func (c redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c redisCache) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

func (c redisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

func (noCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (noCache) Del(context.Context, ...string) error { return nil }

func (noCache) Incr(context.Context, string) (int64, error) { return 0, nil }
