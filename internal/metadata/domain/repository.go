package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, record *MetadataRecord) error
	FindByLocation(ctx context.Context, db *gorm.DB, location string) (*MetadataRecord, error)
	List(ctx context.Context, db *gorm.DB) ([]MetadataRecord, error)
	InsertHistory(ctx context.Context, db *gorm.DB, entry *MetadataHistory) error
	ListHistory(ctx context.Context, db *gorm.DB, location string, limit int) ([]MetadataHistory, error)
}
