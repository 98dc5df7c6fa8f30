package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/appinventory/internal/clock"
	"github.com/smallbiznis/appinventory/internal/metadata/domain"
	"github.com/smallbiznis/appinventory/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const historyLimit = 50

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Catalog domain.Catalog
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	catalog domain.Catalog
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("metadata.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		catalog: p.Catalog,
	}
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertRequest) (domain.MetadataRecord, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return domain.MetadataRecord{}, domain.ErrInvalidLocation
	}
	editor := strings.TrimSpace(req.Editor)
	if editor == "" {
		return domain.MetadataRecord{}, domain.ErrInvalidEditor
	}

	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return domain.MetadataRecord{}, domain.ErrDescriptionTooLong
	}

	category := strings.TrimSpace(req.Category)
	if category != "" && !contains(s.catalog.Categories(), category) {
		return domain.MetadataRecord{}, domain.ErrInvalidCategory
	}
	status := strings.TrimSpace(req.Status)
	if status != "" && !contains(s.catalog.Statuses(), status) {
		return domain.MetadataRecord{}, domain.ErrInvalidStatus
	}

	record := domain.MetadataRecord{
		Location:    location,
		Description: description,
		Category:    category,
		Status:      status,
		UpdatedBy:   editor,
		UpdatedAt:   s.clock.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Upsert(ctx, tx, &record); err != nil {
			return err
		}
		return s.repo.InsertHistory(ctx, tx, &domain.MetadataHistory{
			ID:          s.genID.Generate(),
			Location:    record.Location,
			Description: record.Description,
			Category:    record.Category,
			Status:      record.Status,
			UpdatedBy:   record.UpdatedBy,
			UpdatedAt:   record.UpdatedAt,
		})
	})
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to upsert metadata", zap.String("location", location), zap.Error(err))
		return domain.MetadataRecord{}, err
	}

	logger.WithContext(ctx, s.log).Info("metadata saved",
		zap.String("location", location),
		zap.String("updated_by", editor),
		zap.String("category", category),
		zap.String("status", status),
	)
	return record, nil
}

func (s *Service) Snapshot(ctx context.Context) ([]domain.MetadataRecord, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, location string) (*domain.MetadataRecord, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, domain.ErrInvalidLocation
	}
	record, err := s.repo.FindByLocation(ctx, s.db, location)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

func (s *Service) History(ctx context.Context, location string) ([]domain.MetadataHistory, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, domain.ErrInvalidLocation
	}
	return s.repo.ListHistory(ctx, s.db, location, historyLimit)
}

func contains(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}
