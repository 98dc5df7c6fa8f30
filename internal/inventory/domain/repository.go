package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository reads inventory and usage snapshots from the warehouse.
type Repository interface {
	ListApps(ctx context.Context, db *gorm.DB, scope Scope) ([]AppRecord, error)
	ListUsage(ctx context.Context, db *gorm.DB, scope Scope) ([]UsageRecord, error)
}
