package domain

import (
	"context"
	"errors"

	metadatadomain "github.com/smallbiznis/appinventory/internal/metadata/domain"
)

type SaveMetadataRequest struct {
	Scope       Scope
	Viewer      Viewer
	Location    string
	Description string
	Category    string
	Status      string
}

type SummarizeRequest struct {
	Scope    Scope
	Viewer   Viewer
	Location string
}

type Detail struct {
	Row     WorkingRow                       `json:"row"`
	History []metadatadomain.MetadataHistory `json:"history"`
	Draft   *PendingEdit                     `json:"draft,omitempty"`
}

type Service interface {
	Browse(ctx context.Context, state SessionState) (View, error)
	FacetOptions(ctx context.Context, state SessionState) (FacetOptions, error)
	Export(ctx context.Context, state SessionState) ([]WorkingRow, error)
	Detail(ctx context.Context, state SessionState, location string) (Detail, error)
	SaveMetadata(ctx context.Context, req SaveMetadataRequest) (metadatadomain.MetadataRecord, error)
	Summarize(ctx context.Context, req SummarizeRequest) (PendingEdit, error)
	GetDraft(ctx context.Context, viewer Viewer, location string) (*PendingEdit, error)
	DiscardDraft(ctx context.Context, viewer Viewer, location string) error
	ClearCache(ctx context.Context) error
}

var (
	ErrInvalidScope      = errors.New("invalid_scope")
	ErrInvalidFacet      = errors.New("invalid_facet")
	ErrInvalidLocation   = errors.New("invalid_location")
	ErrInvalidViewer     = errors.New("invalid_viewer")
	ErrNotFound          = errors.New("not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrRateLimited       = errors.New("rate_limited")
	ErrSummaryInProgress = errors.New("summary_in_progress")
)

// SummaryError carries a summarizer sentinel string verbatim.
type SummaryError struct {
	Message string
}

func (e *SummaryError) Error() string {
	return e.Message
}
