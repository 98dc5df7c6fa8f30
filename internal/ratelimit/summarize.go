package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/appinventory/internal/clock"
	"github.com/smallbiznis/appinventory/internal/config"
)

const (
	keySummarizeViewer   = "appinventory:summarize:viewer:%s"
	keySummarizeLocation = "appinventory:summarize:lock:%s"
)

var (
	ErrRateLimited = errors.New("rate_limited")
	ErrLocked      = errors.New("locked")
)

// SummarizeGuard throttles AI summary calls per viewer and serializes them
// per app location.
type SummarizeGuard struct {
	bucket  Bucket
	lock    Lock
	rate    float64
	burst   int
	lockTTL time.Duration
}

func NewSummarizeGuard(cfg config.Config, client *redis.Client, clk clock.Clock) (*SummarizeGuard, error) {
	limitCfg := cfg.RateLimit
	if limitCfg.SummarizeRate <= 0 || limitCfg.SummarizeBurst <= 0 {
		return nil, errors.New("summarize rate limit must be positive")
	}
	lockTTL := limitCfg.SummarizeLockTTL
	if lockTTL <= 0 {
		lockTTL = time.Minute
	}

	guard := &SummarizeGuard{
		rate:    limitCfg.SummarizeRate,
		burst:   limitCfg.SummarizeBurst,
		lockTTL: lockTTL,
	}
	if client != nil {
		guard.bucket = NewTokenBucket(client)
		guard.lock = NewLocker(client)
	} else {
		guard.bucket = NewMemoryBucket(clk)
		guard.lock = NewMemoryLocker(clk)
	}
	return guard, nil
}

// NewSummarizeGuardWith builds a guard over explicit primitives.
func NewSummarizeGuardWith(bucket Bucket, lock Lock, rate float64, burst int, lockTTL time.Duration) *SummarizeGuard {
	return &SummarizeGuard{bucket: bucket, lock: lock, rate: rate, burst: burst, lockTTL: lockTTL}
}

// Acquire checks the viewer's budget and takes the location lock. The
// returned release func must be called when the summary call finishes.
func (g *SummarizeGuard) Acquire(ctx context.Context, viewer, location string) (func(), error) {
	viewer = strings.ToLower(strings.TrimSpace(viewer))
	location = strings.TrimSpace(location)

	result, err := g.bucket.Allow(ctx, fmt.Sprintf(keySummarizeViewer, viewer), g.rate, g.burst)
	if err != nil {
		return nil, err
	}
	if !result.Allowed {
		return nil, fmt.Errorf("%w: retry after %s", ErrRateLimited, result.RetryAfter.Round(time.Second))
	}

	key := fmt.Sprintf(keySummarizeLocation, location)
	token, ok, err := g.lock.TryLock(ctx, key, g.lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		_ = g.lock.Release(context.WithoutCancel(ctx), key, token)
	}, nil
}
