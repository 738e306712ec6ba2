// Package cache stores fetched leaderboard pages in Redis so repeated runs
// over the same competitions do not hit the site again.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces page entries
const KeyPrefix = "shakeup:page:"

// RedisCache implements fetcher.PageCache with a Redis backend.
type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCache creates a cache whose entries expire after ttl (0 keeps them forever).
func NewRedisCache(redisClient *redis.Client, ttl time.Duration) *RedisCache {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisCache{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Open connects to the Redis server at url (redis://host:port/db) and pings it.
func Open(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisCache(client, ttl), nil
}

// Key returns the Redis key for a page URL.
func Key(url string) string {
	return KeyPrefix + url
}

// Get returns the cached page for url; ok is false on a miss.
func (c *RedisCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	data, err := c.redis.Get(ctx, Key(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return data, true, nil
}

// Set stores body for url.
func (c *RedisCache) Set(ctx context.Context, url string, body []byte) error {
	if err := c.redis.Set(ctx, Key(url), body, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes the cached page for url. Deleting a missing entry is not an error.
func (c *RedisCache) Delete(ctx context.Context, url string) error {
	if err := c.redis.Del(ctx, Key(url)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.redis.Close()
}
