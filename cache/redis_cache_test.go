package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis connects to a local Redis on a dedicated DB, skipping when none is running.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestKey(t *testing.T) {
	assert.Equal(t, "shakeup:page:https://example.com/c/x/leaderboard/public",
		Key("https://example.com/c/x/leaderboard/public"))
}

func TestNewRedisCache_Panic(t *testing.T) {
	assert.Panics(t, func() { NewRedisCache(nil, time.Minute) })
}

func TestOpen_InvalidURL(t *testing.T) {
	_, err := Open(context.Background(), "not a url", time.Minute)
	assert.Error(t, err)
}

func TestRedisCache_GetSet(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "https://example.com/a", []byte("<table></table>")))

	body, ok, err := c.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<table></table>", string(body))

	ttl, err := client.TTL(ctx, Key("https://example.com/a")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisCache_Delete(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "https://example.com/a", []byte("<html>login wall</html>")))
	require.NoError(t, c.Delete(ctx, "https://example.com/a"))

	_, ok, err := c.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)

	// Missing keys delete cleanly
	assert.NoError(t, c.Delete(ctx, "https://example.com/missing"))
}
