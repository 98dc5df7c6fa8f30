package domain

import (
	"context"
	"errors"
)

type UpsertRequest struct {
	Location    string
	Description string
	Category    string
	Status      string
	Editor      string
}

// Catalog lists the allowed category and status values.
type Catalog interface {
	Categories() []string
	Statuses() []string
}

type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (MetadataRecord, error)
	Snapshot(ctx context.Context) ([]MetadataRecord, error)
	Get(ctx context.Context, location string) (*MetadataRecord, error)
	History(ctx context.Context, location string) ([]MetadataHistory, error)
}

const MaxDescriptionLength = 4000

var (
	ErrInvalidLocation    = errors.New("invalid_location")
	ErrInvalidEditor      = errors.New("invalid_editor")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrDescriptionTooLong = errors.New("description_too_long")
	ErrNotFound           = errors.New("not_found")
)
