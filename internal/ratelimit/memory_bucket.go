package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/smallbiznis/appinventory/internal/clock"
)

type memoryState struct {
	tokens float64
	ts     time.Time
}

// MemoryBucket is a single-process Bucket used when Redis is not configured.
type MemoryBucket struct {
	mu      sync.Mutex
	clock   clock.Clock
	buckets map[string]memoryState
}

func NewMemoryBucket(clk clock.Clock) *MemoryBucket {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &MemoryBucket{
		clock:   clk,
		buckets: make(map[string]memoryState),
	}
}

func (m *MemoryBucket) Allow(ctx context.Context, key string, rate float64, burst int) (*RateLimitResult, error) {
	if err := validate(key, rate, burst); err != nil {
		return &RateLimitResult{Allowed: false}, err
	}

	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.buckets[key]
	if !ok {
		state = memoryState{tokens: float64(burst), ts: now}
	} else {
		delta := now.Sub(state.ts).Seconds()
		if delta < 0 {
			delta = 0
		}
		state.tokens = math.Min(float64(burst), state.tokens+delta*rate)
		state.ts = now
	}

	allowed := false
	if state.tokens >= 1 {
		allowed = true
		state.tokens--
	}
	m.buckets[key] = state

	return newResult(allowed, state.tokens, rate, burst), nil
}
