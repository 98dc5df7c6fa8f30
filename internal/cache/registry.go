package cache

import (
	"sync"

	"github.com/smallbiznis/appinventory/internal/observability/metrics"
)

type Purger interface {
	Name() string
	Purge()
}

// Registry tracks every snapshot cache so they can be cleared together.
type Registry struct {
	mu      sync.Mutex
	purgers []Purger
	metrics *metrics.Metrics
}

func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{metrics: m}
}

func (r *Registry) Register(p Purger) {
	r.mu.Lock()
	r.purgers = append(r.purgers, p)
	r.mu.Unlock()
}

// InvalidateAll purges every registered cache.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	purgers := append([]Purger(nil), r.purgers...)
	r.mu.Unlock()

	for _, p := range purgers {
		p.Purge()
	}
	r.metrics.CacheInvalidated()
}

func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.purgers))
	for _, p := range r.purgers {
		names = append(names, p.Name())
	}
	return names
}
