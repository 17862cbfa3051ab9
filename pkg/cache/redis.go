package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pool settings for the item read-through cache. Every cache error falls
// back to a store read, so operations give up quickly instead of queueing.
const (
	itemCachePoolSize     = 10
	itemCacheMinIdle      = 2
	itemCacheDialTimeout  = 2 * time.Second
	itemCacheIOTimeout    = 500 * time.Millisecond
	itemCachePoolWait     = time.Second
	itemCacheStartupPing = 2 * time.Second
)

// RedisClient owns the connection pool shared by the item cache and the
// worker's read model.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient dials the redis:// or rediss:// URL and refuses to return
// until one PING has succeeded.
func NewRedisClient(ctx context.Context, url string) (*RedisClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	tuneForItemCache(opts)

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, itemCacheStartupPing)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis unreachable: %w", err)
	}
	return &RedisClient{client: rdb}, nil
}

func tuneForItemCache(opts *redis.Options) {
	opts.PoolSize = itemCachePoolSize
	opts.MinIdleConns = itemCacheMinIdle
	opts.MaxRetries = 1
	opts.DialTimeout = itemCacheDialTimeout
	opts.ReadTimeout = itemCacheIOTimeout
	opts.WriteTimeout = itemCacheIOTimeout
	opts.PoolTimeout = itemCachePoolWait
}

// Ping backs the "redis" entry of the readiness check.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("cache: redis close: %w", err)
	}
	return nil
}

// Client exposes the pool to ItemCache.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
