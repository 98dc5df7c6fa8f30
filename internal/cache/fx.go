package cache

import (
	"github.com/smallbiznis/appinventory/internal/clock"
	"github.com/smallbiznis/appinventory/internal/config"
	"github.com/smallbiznis/appinventory/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("cache",
	fx.Provide(provideSnapshotCache),
)

func provideSnapshotCache(cfg config.Config, clk clock.Clock, m *metrics.Metrics) SnapshotCache {
	return NewSnapshotCache(TTLs{
		Inventory: cfg.Cache.InventoryTTL,
		Usage:     cfg.Cache.UsageTTL,
		Metadata:  cfg.Cache.MetadataTTL,
		Identity:  cfg.Cache.IdentityTTL,
	}, clk, m)
}
