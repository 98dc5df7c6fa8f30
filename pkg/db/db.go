package db

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/appinventory/internal/config"
	"github.com/smallbiznis/appinventory/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

type OpenOptions struct {
	// Label names the connection in traces and pool metrics.
	Label string
	// PoolMetrics exports connection pool stats to Prometheus.
	PoolMetrics bool
}

// Open connects with the zap-backed gorm logger, applies pool limits and
// installs the tracing plugin.
func Open(cfg Config, opts OpenOptions) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(gormLoggerConfig(cfg, opts)),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Label, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	}

	if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithDBName(opts.Label))); err != nil {
		return nil, err
	}
	if opts.PoolMetrics {
		if err := conn.Use(gormprometheus.New(gormprometheus.Config{
			DBName:          opts.Label,
			RefreshInterval: 15,
		})); err != nil {
			return nil, err
		}
	}

	return conn, nil
}

// gormLoggerConfig labels query logs with the connection so metadata and
// warehouse queries can be told apart.
func gormLoggerConfig(cfg Config, opts OpenOptions) logger.GormLoggerConfig {
	lc := logger.DefaultGormLoggerConfig(opts.Label)
	if cfg.SlowQuery > 0 {
		lc.SlowThreshold = cfg.SlowQuery
	}
	return lc
}

func newMetadataDB(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	conn, err := Open(MetadataConfig(cfg), OpenOptions{Label: "metadata", PoolMetrics: true})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			log.Info("closing metadata database")
			return sqlDB.Close()
		},
	})
	return conn, nil
}

// Module provides the metadata *gorm.DB.
var Module = fx.Module("db",
	fx.Provide(newMetadataDB),
)
