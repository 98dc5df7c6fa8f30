// Package warehouse owns the read-only connection to the analytics
// warehouse that publishes the inventory, usage and directory views.
package warehouse

import (
	"context"
	"fmt"
	"regexp"

	"github.com/smallbiznis/appinventory/internal/config"
	"github.com/smallbiznis/appinventory/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DB is the warehouse connection, kept distinct from the metadata *gorm.DB.
type DB struct {
	*gorm.DB
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)

// ValidTable reports whether name is a plain, optionally qualified identifier.
func ValidTable(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid warehouse table name %q", name)
	}
	return nil
}

func open(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*DB, error) {
	w := cfg.Warehouse
	for _, table := range []string{w.AppsTable, w.TeamAppsTable, w.UsageTable, w.TeamUsageTable, w.DirectoryTable} {
		if err := ValidTable(table); err != nil {
			return nil, err
		}
	}

	conn, err := db.Open(db.WarehouseConfig(cfg), db.OpenOptions{Label: "warehouse"})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			log.Info("closing warehouse connection")
			return sqlDB.Close()
		},
	})
	return &DB{DB: conn}, nil
}

var Module = fx.Module("warehouse",
	fx.Provide(open),
)
