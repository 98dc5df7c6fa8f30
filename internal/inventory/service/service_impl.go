package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/smallbiznis/appinventory/internal/cache"
	"github.com/smallbiznis/appinventory/internal/clock"
	"github.com/smallbiznis/appinventory/internal/config"
	"github.com/smallbiznis/appinventory/internal/drafts"
	"github.com/smallbiznis/appinventory/internal/identity"
	"github.com/smallbiznis/appinventory/internal/inventory/charts"
	"github.com/smallbiznis/appinventory/internal/inventory/domain"
	"github.com/smallbiznis/appinventory/internal/inventory/filter"
	"github.com/smallbiznis/appinventory/internal/inventory/merge"
	metadatadomain "github.com/smallbiznis/appinventory/internal/metadata/domain"
	obscontext "github.com/smallbiznis/appinventory/internal/observability/context"
	"github.com/smallbiznis/appinventory/internal/observability/logger"
	"github.com/smallbiznis/appinventory/internal/observability/metrics"
	"github.com/smallbiznis/appinventory/internal/ratelimit"
	"github.com/smallbiznis/appinventory/internal/summarizer"
	"github.com/smallbiznis/appinventory/internal/warehouse"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	saveResultOK        = "ok"
	saveResultForbidden = "forbidden"
	saveResultError     = "error"
)

type Params struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	Clock      clock.Clock
	Warehouse  *warehouse.DB
	Repo       domain.Repository
	Directory  identity.Directory
	Metadata   metadatadomain.Service
	Cache      cache.SnapshotCache
	Drafts     drafts.Store
	Summarizer summarizer.Summarizer
	Guard      *ratelimit.SummarizeGuard
	Metrics    *metrics.Metrics
}

type Service struct {
	log        *zap.Logger
	clock      clock.Clock
	warehouse  *warehouse.DB
	repo       domain.Repository
	directory  identity.Directory
	metadata   metadatadomain.Service
	cache      cache.SnapshotCache
	drafts     drafts.Store
	summarizer summarizer.Summarizer
	guard      *ratelimit.SummarizeGuard
	metrics    *metrics.Metrics

	baseURL            string
	preferredOwnerRole string
}

func New(p Params) domain.Service {
	return &Service{
		log:                p.Log.Named("inventory.service"),
		clock:              p.Clock,
		warehouse:          p.Warehouse,
		repo:               p.Repo,
		directory:          p.Directory,
		metadata:           p.Metadata,
		cache:              p.Cache,
		drafts:             p.Drafts,
		summarizer:         p.Summarizer,
		guard:              p.Guard,
		metrics:            p.Metrics,
		baseURL:            p.Config.Browse.AppBaseURL,
		preferredOwnerRole: p.Config.Browse.PreferredOwnerRole,
	}
}

// snapshot is the merged working table for one scope and viewer.
type snapshot struct {
	apps  []domain.AppRecord
	usage []domain.UsageRecord
	rows  []domain.WorkingRow
}

func (s *Service) Browse(ctx context.Context, state domain.SessionState) (domain.View, error) {
	state, err := normalizeState(state)
	if err != nil {
		return domain.View{}, err
	}

	snap, err := s.load(ctx, state.Scope, state.Viewer)
	if err != nil {
		return domain.View{}, err
	}
	view := domain.View{
		Scope:  state.Scope,
		Facet:  state.Facet,
		Search: state.Search,
	}
	if len(snap.apps) == 0 {
		view.Empty = true
		return view, nil
	}

	sel := s.selection(state)
	view.FacetValue = filter.ResolveValue(snap.rows, sel)
	view.Rows = filter.Apply(snap.rows, sel)
	view.Stats = charts.ComputeStats(snap.rows, view.Rows)
	view.Charts = charts.Build(snap.apps, snap.usage, view.Rows, s.clock.Now())
	view.Selected = charts.SelectedDetail(strings.TrimSpace(state.SelectedApp), snap.usage)
	return view, nil
}

func (s *Service) FacetOptions(ctx context.Context, state domain.SessionState) (domain.FacetOptions, error) {
	state, err := normalizeState(state)
	if err != nil {
		return domain.FacetOptions{}, err
	}
	snap, err := s.load(ctx, state.Scope, state.Viewer)
	if err != nil {
		return domain.FacetOptions{}, err
	}
	return filter.Options(snap.rows, state.Facet, s.preferredOwnerRole), nil
}

func (s *Service) Export(ctx context.Context, state domain.SessionState) ([]domain.WorkingRow, error) {
	state, err := normalizeState(state)
	if err != nil {
		return nil, err
	}
	snap, err := s.load(ctx, state.Scope, state.Viewer)
	if err != nil {
		return nil, err
	}
	return filter.Apply(snap.rows, s.selection(state)), nil
}

func (s *Service) Detail(ctx context.Context, state domain.SessionState, location string) (domain.Detail, error) {
	state, err := normalizeState(state)
	if err != nil {
		return domain.Detail{}, err
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.Detail{}, domain.ErrInvalidLocation
	}

	snap, err := s.load(ctx, state.Scope, state.Viewer)
	if err != nil {
		return domain.Detail{}, err
	}
	row, ok := findRow(snap.rows, location)
	if !ok {
		return domain.Detail{}, domain.ErrNotFound
	}

	history, err := s.metadata.History(ctx, location)
	if err != nil {
		return domain.Detail{}, err
	}
	detail := domain.Detail{Row: row, History: history}

	if login := viewerLogin(state.Viewer); login != "" {
		draft, err := s.drafts.Get(ctx, login, location)
		if err != nil {
			return domain.Detail{}, err
		}
		detail.Draft = draft
	}
	return detail, nil
}

// SaveMetadata persists an edit for an app the viewer may edit. Every
// cached snapshot is dropped afterwards so the next read sees the write.
func (s *Service) SaveMetadata(ctx context.Context, req domain.SaveMetadataRequest) (metadatadomain.MetadataRecord, error) {
	row, err := s.editableRow(ctx, req.Scope, req.Viewer, req.Location)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			s.metrics.MetadataSaved(saveResultForbidden)
		}
		return metadatadomain.MetadataRecord{}, err
	}
	login := viewerLogin(req.Viewer)

	record, err := s.metadata.Upsert(ctx, metadatadomain.UpsertRequest{
		Location:    row.Location,
		Description: req.Description,
		Category:    req.Category,
		Status:      req.Status,
		Editor:      login,
	})
	if err != nil {
		s.metrics.MetadataSaved(saveResultError)
		return metadatadomain.MetadataRecord{}, err
	}

	s.cache.InvalidateAll()
	if err := s.drafts.Delete(ctx, login, row.Location); err != nil {
		s.logFor(obscontext.WithViewer(ctx, login)).Warn("failed to clear draft after save",
			zap.String("location", row.Location),
			zap.Error(err),
		)
	}
	s.metrics.MetadataSaved(saveResultOK)
	return record, nil
}

// Summarize asks the summarizer for a description and keeps a successful
// result as the viewer's pending draft. A sentinel result is returned as a
// *domain.SummaryError and never stored.
func (s *Service) Summarize(ctx context.Context, req domain.SummarizeRequest) (domain.PendingEdit, error) {
	row, err := s.editableRow(ctx, req.Scope, req.Viewer, req.Location)
	if err != nil {
		return domain.PendingEdit{}, err
	}
	login := viewerLogin(req.Viewer)

	release, err := s.guard.Acquire(ctx, login, row.Location)
	switch {
	case errors.Is(err, ratelimit.ErrRateLimited):
		s.metrics.Summary(metrics.SummaryOutcomeRateLimited, 0)
		return domain.PendingEdit{}, domain.ErrRateLimited
	case errors.Is(err, ratelimit.ErrLocked):
		s.metrics.Summary(metrics.SummaryOutcomeBusy, 0)
		return domain.PendingEdit{}, domain.ErrSummaryInProgress
	case err != nil:
		return domain.PendingEdit{}, err
	}
	defer release()

	start := time.Now()
	text := s.summarizer.Summarize(ctx, row.Location)
	if summarizer.IsSentinel(text) {
		s.metrics.Summary(metrics.SummaryOutcomeSentinel, time.Since(start))
		s.logFor(obscontext.WithViewer(ctx, login)).Info("summary unavailable",
			zap.String("location", row.Location),
			zap.String("result", text),
		)
		return domain.PendingEdit{}, &domain.SummaryError{Message: text}
	}
	s.metrics.Summary(metrics.SummaryOutcomeOK, time.Since(start))

	edit := domain.PendingEdit{
		Location:    row.Location,
		Description: text,
		Category:    deref(row.Category),
		Status:      deref(row.Status),
		CreatedAt:   s.clock.Now(),
	}
	if err := s.drafts.Put(ctx, login, edit); err != nil {
		return domain.PendingEdit{}, err
	}
	return edit, nil
}

func (s *Service) GetDraft(ctx context.Context, viewer domain.Viewer, location string) (*domain.PendingEdit, error) {
	login, location, err := draftKey(viewer, location)
	if err != nil {
		return nil, err
	}
	return s.drafts.Get(ctx, login, location)
}

func (s *Service) DiscardDraft(ctx context.Context, viewer domain.Viewer, location string) error {
	login, location, err := draftKey(viewer, location)
	if err != nil {
		return err
	}
	return s.drafts.Delete(ctx, login, location)
}

func (s *Service) ClearCache(ctx context.Context) error {
	s.cache.InvalidateAll()
	s.logFor(ctx).Info("snapshot caches cleared")
	return nil
}

// load builds the merged working table. Any failing source fails the whole
// load; nothing partial is returned.
func (s *Service) load(ctx context.Context, scope domain.Scope, viewer domain.Viewer) (snapshot, error) {
	log := s.logFor(obscontext.WithScope(ctx, string(scope)))
	apps, err := s.cache.Apps(ctx, scope, func(ctx context.Context) ([]domain.AppRecord, error) {
		return s.repo.ListApps(ctx, s.warehouse.DB, scope)
	})
	if err != nil {
		log.Error("failed to load inventory", zap.Error(err))
		return snapshot{}, err
	}
	if len(apps) == 0 {
		return snapshot{}, nil
	}

	usage, err := s.cache.Usage(ctx, scope, func(ctx context.Context) ([]domain.UsageRecord, error) {
		return s.repo.ListUsage(ctx, s.warehouse.DB, scope)
	})
	if err != nil {
		log.Error("failed to load usage", zap.Error(err))
		return snapshot{}, err
	}

	meta, err := s.cache.Metadata(ctx, s.metadata.Snapshot)
	if err != nil {
		log.Error("failed to load metadata", zap.Error(err))
		return snapshot{}, err
	}

	viewer = s.resolveViewer(ctx, viewer)
	rows := merge.Merge(merge.Input{
		Apps:     apps,
		Metadata: meta,
		Usage:    usage,
		Viewer:   viewer,
		BaseURL:  s.baseURL,
	})
	return snapshot{apps: apps, usage: usage, rows: rows}, nil
}

// logFor scopes the service logger to the request carried by ctx.
func (s *Service) logFor(ctx context.Context) *zap.Logger {
	return logger.WithContext(ctx, s.log)
}

// resolveViewer fills in the display name from the directory. A directory
// failure only narrows the viewer to login matching.
func (s *Service) resolveViewer(ctx context.Context, viewer domain.Viewer) domain.Viewer {
	login := viewerLogin(viewer)
	if viewer.DisplayName != nil || login == "" || s.directory == nil {
		return viewer
	}
	key := strings.ToLower(login)
	name, err := s.cache.DisplayName(ctx, key, func(ctx context.Context) (*string, error) {
		return s.directory.DisplayName(ctx, key)
	})
	if err != nil {
		s.logFor(obscontext.WithViewer(ctx, login)).Warn("failed to resolve display name", zap.Error(err))
		return viewer
	}
	viewer.DisplayName = name
	return viewer
}

func (s *Service) editableRow(ctx context.Context, scope domain.Scope, viewer domain.Viewer, location string) (domain.WorkingRow, error) {
	if viewerLogin(viewer) == "" {
		return domain.WorkingRow{}, domain.ErrInvalidViewer
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.WorkingRow{}, domain.ErrInvalidLocation
	}
	scope, err := domain.ParseScope(string(scope))
	if err != nil {
		return domain.WorkingRow{}, err
	}

	snap, err := s.load(ctx, scope, viewer)
	if err != nil {
		return domain.WorkingRow{}, err
	}
	row, ok := findRow(snap.rows, location)
	if !ok {
		return domain.WorkingRow{}, domain.ErrNotFound
	}
	if !row.CanEdit {
		return domain.WorkingRow{}, domain.ErrForbidden
	}
	return row, nil
}

func (s *Service) selection(state domain.SessionState) filter.Selection {
	return filter.Selection{
		Facet:              state.Facet,
		Value:              state.FacetValue,
		Search:             state.Search,
		SelectedApp:        state.SelectedApp,
		PreferredOwnerRole: s.preferredOwnerRole,
	}
}

func normalizeState(state domain.SessionState) (domain.SessionState, error) {
	scope, err := domain.ParseScope(string(state.Scope))
	if err != nil {
		return state, err
	}
	facet, err := domain.ParseFacet(string(state.Facet))
	if err != nil {
		return state, err
	}
	state.Scope = scope
	state.Facet = facet
	state.Search = strings.TrimSpace(state.Search)
	return state, nil
}

func draftKey(viewer domain.Viewer, location string) (string, string, error) {
	login := viewerLogin(viewer)
	if login == "" {
		return "", "", domain.ErrInvalidViewer
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return "", "", domain.ErrInvalidLocation
	}
	return login, location, nil
}

func findRow(rows []domain.WorkingRow, location string) (domain.WorkingRow, bool) {
	for _, r := range rows {
		if r.Location == location {
			return r, true
		}
	}
	return domain.WorkingRow{}, false
}

func viewerLogin(v domain.Viewer) string {
	return strings.TrimSpace(v.Login)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
