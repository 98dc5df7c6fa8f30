package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/appinventory/internal/metadata/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *domain.MetadataRecord) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "location"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "category", "status", "updated_by", "updated_at"}),
		}).
		Create(record).Error
}

func (r *repo) FindByLocation(ctx context.Context, db *gorm.DB, location string) (*domain.MetadataRecord, error) {
	var record domain.MetadataRecord
	err := db.WithContext(ctx).
		Where("location = ?", location).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.MetadataRecord, error) {
	var records []domain.MetadataRecord
	err := db.WithContext(ctx).
		Model(&domain.MetadataRecord{}).
		Order("location asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) InsertHistory(ctx context.Context, db *gorm.DB, entry *domain.MetadataHistory) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) ListHistory(ctx context.Context, db *gorm.DB, location string, limit int) ([]domain.MetadataHistory, error) {
	var entries []domain.MetadataHistory
	stmt := db.WithContext(ctx).
		Model(&domain.MetadataHistory{}).
		Where("location = ?", location).
		Order("updated_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
