package cache

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/smallbiznis/appinventory/internal/observability/metrics"
	"golang.org/x/sync/singleflight"
)

// Loader memoizes one family of snapshots behind a TTL cache. Concurrent
// misses for the same key share a single load. Failed loads are not cached.
type Loader[V any] struct {
	name       string
	ttl        time.Duration
	cache      Cache[string, V]
	group      singleflight.Group
	generation atomic.Uint64
	metrics    *metrics.Metrics
}

func NewLoader[V any](name string, ttl time.Duration, c Cache[string, V], m *metrics.Metrics) *Loader[V] {
	return &Loader[V]{
		name:    name,
		ttl:     ttl,
		cache:   c,
		metrics: m,
	}
}

func (l *Loader[V]) Name() string {
	return l.name
}

// GetOrLoad returns the cached value for key or calls load and caches its
// result for the loader's ttl.
func (l *Loader[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := l.cache.Get(key); ok {
		l.metrics.CacheResult(l.name, metrics.CacheResultHit)
		return v, nil
	}
	l.metrics.CacheResult(l.name, metrics.CacheResultMiss)

	gen := l.generation.Load()
	flightKey := key + "#" + strconv.FormatUint(gen, 10)
	// The shared load outlives any single caller; each caller only stops
	// waiting on its own cancellation.
	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(flightKey, func() (interface{}, error) {
		start := time.Now()
		v, err := load(loadCtx)
		l.metrics.CacheLoad(l.name, time.Since(start), err)
		if err != nil {
			return v, err
		}
		if l.generation.Load() == gen {
			l.cache.Set(key, v, l.ttl)
		}
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Purge drops every entry. Loads already in flight will not repopulate it.
func (l *Loader[V]) Purge() {
	l.generation.Add(1)
	l.cache.Purge()
}
