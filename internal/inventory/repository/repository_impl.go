package repository

import (
	"context"

	"github.com/smallbiznis/appinventory/internal/config"
	"github.com/smallbiznis/appinventory/internal/inventory/domain"
	"gorm.io/gorm"
)

const appColumns = "location, name, title, created_on, last_updated_time, created_by_user, " +
	"creator_full_name, manager_name, owner_role, database_name, org_hierarchy"

const usageColumns = "app_fqn, execution_count, unique_users"

// Tables names the warehouse views read per scope.
type Tables struct {
	Apps      string
	TeamApps  string
	Usage     string
	TeamUsage string
}

type repo struct {
	tables Tables
}

func Provide(cfg config.Config) domain.Repository {
	return New(Tables{
		Apps:      cfg.Warehouse.AppsTable,
		TeamApps:  cfg.Warehouse.TeamAppsTable,
		Usage:     cfg.Warehouse.UsageTable,
		TeamUsage: cfg.Warehouse.TeamUsageTable,
	})
}

func New(tables Tables) domain.Repository {
	return &repo{tables: tables}
}

func (r *repo) ListApps(ctx context.Context, db *gorm.DB, scope domain.Scope) ([]domain.AppRecord, error) {
	table := r.tables.TeamApps
	if scope == domain.ScopeAll {
		table = r.tables.Apps
	}

	var apps []domain.AppRecord
	err := db.WithContext(ctx).
		Table(table).
		Select(appColumns).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *repo) ListUsage(ctx context.Context, db *gorm.DB, scope domain.Scope) ([]domain.UsageRecord, error) {
	table := r.tables.TeamUsage
	if scope == domain.ScopeAll {
		table = r.tables.Usage
	}

	var usage []domain.UsageRecord
	err := db.WithContext(ctx).
		Table(table).
		Select(usageColumns).
		Find(&usage).Error
	if err != nil {
		return nil, err
	}
	return usage, nil
}
