package cache

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/appinventory/internal/clock"
	inventorydomain "github.com/smallbiznis/appinventory/internal/inventory/domain"
	metadatadomain "github.com/smallbiznis/appinventory/internal/metadata/domain"
	"github.com/smallbiznis/appinventory/internal/observability/metrics"
)

const (
	DefaultInventoryTTL = 8 * time.Hour
	DefaultUsageTTL     = time.Hour
	DefaultMetadataTTL  = 60 * time.Second
	DefaultIdentityTTL  = time.Hour
)

type TTLs struct {
	Inventory time.Duration
	Usage     time.Duration
	Metadata  time.Duration
	Identity  time.Duration
}

// SnapshotCache memoizes the four read-only sources behind the browse
// pipeline. Returned slices are shared between callers and must not be
// modified.
type SnapshotCache interface {
	Apps(ctx context.Context, scope inventorydomain.Scope, load func(context.Context) ([]inventorydomain.AppRecord, error)) ([]inventorydomain.AppRecord, error)
	Usage(ctx context.Context, scope inventorydomain.Scope, load func(context.Context) ([]inventorydomain.UsageRecord, error)) ([]inventorydomain.UsageRecord, error)
	Metadata(ctx context.Context, load func(context.Context) ([]metadatadomain.MetadataRecord, error)) ([]metadatadomain.MetadataRecord, error)
	DisplayName(ctx context.Context, login string, load func(context.Context) (*string, error)) (*string, error)
	InvalidateAll()
}

type snapshotCache struct {
	apps     *Loader[[]inventorydomain.AppRecord]
	usage    *Loader[[]inventorydomain.UsageRecord]
	metadata *Loader[[]metadatadomain.MetadataRecord]
	identity *Loader[*string]
	registry *Registry
}

// NewSnapshotCache returns an in-memory SnapshotCache. Zero TTLs fall back
// to the defaults.
func NewSnapshotCache(ttls TTLs, clk clock.Clock, m *metrics.Metrics) SnapshotCache {
	registry := NewRegistry(m)
	c := &snapshotCache{
		apps:     NewLoader("apps", orDefault(ttls.Inventory, DefaultInventoryTTL), NewTTLCacheWithClock[string, []inventorydomain.AppRecord](clk), m),
		usage:    NewLoader("usage", orDefault(ttls.Usage, DefaultUsageTTL), NewTTLCacheWithClock[string, []inventorydomain.UsageRecord](clk), m),
		metadata: NewLoader("metadata", orDefault(ttls.Metadata, DefaultMetadataTTL), NewTTLCacheWithClock[string, []metadatadomain.MetadataRecord](clk), m),
		identity: NewLoader("identity", orDefault(ttls.Identity, DefaultIdentityTTL), NewTTLCacheWithClock[string, *string](clk), m),
		registry: registry,
	}
	registry.Register(c.apps)
	registry.Register(c.usage)
	registry.Register(c.metadata)
	registry.Register(c.identity)
	return c
}

func (c *snapshotCache) Apps(ctx context.Context, scope inventorydomain.Scope, load func(context.Context) ([]inventorydomain.AppRecord, error)) ([]inventorydomain.AppRecord, error) {
	return c.apps.GetOrLoad(ctx, cacheKey("apps", string(scope)), load)
}

func (c *snapshotCache) Usage(ctx context.Context, scope inventorydomain.Scope, load func(context.Context) ([]inventorydomain.UsageRecord, error)) ([]inventorydomain.UsageRecord, error) {
	return c.usage.GetOrLoad(ctx, cacheKey("usage", string(scope)), load)
}

func (c *snapshotCache) Metadata(ctx context.Context, load func(context.Context) ([]metadatadomain.MetadataRecord, error)) ([]metadatadomain.MetadataRecord, error) {
	return c.metadata.GetOrLoad(ctx, cacheKey("metadata"), load)
}

func (c *snapshotCache) DisplayName(ctx context.Context, login string, load func(context.Context) (*string, error)) (*string, error) {
	return c.identity.GetOrLoad(ctx, cacheKey("identity", login), load)
}

func (c *snapshotCache) InvalidateAll() {
	c.registry.InvalidateAll()
}

func orDefault(ttl, def time.Duration) time.Duration {
	if ttl <= 0 {
		return def
	}
	return ttl
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
