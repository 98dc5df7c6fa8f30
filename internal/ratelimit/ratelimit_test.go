package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/appinventory/internal/clock"
	"github.com/smallbiznis/appinventory/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBucketRefills(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := NewMemoryBucket(clk)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := b.Allow(ctx, "k", 1, 2)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := b.Allow(ctx, "k", 1, 2)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Second, res.RetryAfter)

	clk.Advance(time.Second)
	res, _ = b.Allow(ctx, "k", 1, 2)
	assert.True(t, res.Allowed)

	res, _ = b.Allow(ctx, "other", 1, 2)
	assert.True(t, res.Allowed)
}

func TestMemoryBucketValidates(t *testing.T) {
	b := NewMemoryBucket(nil)
	_, err := b.Allow(context.Background(), "", 1, 1)
	assert.Error(t, err)
	_, err = b.Allow(context.Background(), "k", 0, 1)
	assert.Error(t, err)
}

func TestMemoryLocker(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	l := NewMemoryLocker(clk)
	ctx := context.Background()

	token, ok, err := l.TryLock(ctx, "loc", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.TryLock(ctx, "loc", time.Minute)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, "loc", "wrong-token"))
	_, ok, _ = l.TryLock(ctx, "loc", time.Minute)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, "loc", token))
	_, ok, _ = l.TryLock(ctx, "loc", time.Minute)
	assert.True(t, ok)

	clk.Advance(2 * time.Minute)
	_, ok, _ = l.TryLock(ctx, "loc", time.Minute)
	assert.True(t, ok, "expired leases can be taken over")
}

func TestSummarizeGuard(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := config.Config{RateLimit: config.RateLimitConfig{SummarizeRate: 0.1, SummarizeBurst: 2, SummarizeLockTTL: time.Minute}}
	guard, err := NewSummarizeGuard(cfg, nil, clk)
	require.NoError(t, err)
	ctx := context.Background()

	release, err := guard.Acquire(ctx, "jsmith", "DB.S.APP")
	require.NoError(t, err)

	_, err = guard.Acquire(ctx, "jsmith", "DB.S.APP")
	assert.ErrorIs(t, err, ErrLocked)

	release()
	_, err = guard.Acquire(ctx, "JSmith", "DB.S.OTHER")
	assert.ErrorIs(t, err, ErrRateLimited)

	release2, err := guard.Acquire(ctx, "alee", "DB.S.APP")
	require.NoError(t, err)
	release2()
}

func TestSummarizeGuardRequiresPositiveRate(t *testing.T) {
	_, err := NewSummarizeGuard(config.Config{}, nil, nil)
	assert.Error(t, err)
}
