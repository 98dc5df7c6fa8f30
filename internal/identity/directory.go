// Package identity resolves viewer logins to display names.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/appinventory/internal/config"
	"github.com/smallbiznis/appinventory/internal/warehouse"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Directory looks up the display name registered for a login. A nil name
// with a nil error means the login is unknown.
type Directory interface {
	DisplayName(ctx context.Context, login string) (*string, error)
}

type directoryRow struct {
	DisplayName *string `gorm:"column:display_name"`
}

type gormDirectory struct {
	db    *gorm.DB
	table string
}

func NewDirectory(db *gorm.DB, table string) Directory {
	return &gormDirectory{db: db, table: table}
}

func (d *gormDirectory) DisplayName(ctx context.Context, login string) (*string, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, nil
	}

	var row directoryRow
	err := d.db.WithContext(ctx).
		Table(d.table).
		Select("display_name").
		Where("LOWER(login) = ?", strings.ToLower(login)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if row.DisplayName == nil || strings.TrimSpace(*row.DisplayName) == "" {
		return nil, nil
	}
	name := strings.TrimSpace(*row.DisplayName)
	return &name, nil
}

func provideDirectory(w *warehouse.DB, cfg config.Config) Directory {
	return NewDirectory(w.DB, cfg.Warehouse.DirectoryTable)
}

var Module = fx.Module("identity",
	fx.Provide(provideDirectory),
)
