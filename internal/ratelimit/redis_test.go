package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedis connects to REDIS_TEST_ADDR (default localhost:6379) and skips
// the test when no server answers.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testKey(t *testing.T, client *redis.Client, prefix string) string {
	key := prefix + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), key) })
	return key
}

func TestTokenBucketScript(t *testing.T) {
	client := newTestRedis(t)
	bucket := NewTokenBucket(client)
	ctx := context.Background()
	key := testKey(t, client, "appinventory:test:bucket:")

	for i := 0; i < 2; i++ {
		res, err := bucket.Allow(ctx, key, 0.01, 2)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := bucket.Allow(ctx, key, 0.01, 2)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	fields, err := client.HGetAll(ctx, key).Result()
	require.NoError(t, err)
	assert.Contains(t, fields, "tokens")
	assert.Contains(t, fields, "ts")
	ttl, err := client.PTTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestLockerReleaseChecksToken(t *testing.T) {
	client := newTestRedis(t)
	locker := NewLocker(client)
	ctx := context.Background()
	key := testKey(t, client, "appinventory:test:lock:")

	token, ok, err := locker.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locker.Release(ctx, key, "someone-else"))
	exists, err := client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	require.NoError(t, locker.Release(ctx, key, token))
	exists, err = client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)

	_, ok, err = locker.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
