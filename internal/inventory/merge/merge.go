// Package merge joins inventory, metadata and usage snapshots into the
// working table consumed by the filter engine.
package merge

import (
	"sort"
	"strings"

	"github.com/smallbiznis/appinventory/internal/inventory/domain"
	metadatadomain "github.com/smallbiznis/appinventory/internal/metadata/domain"
	"github.com/smallbiznis/appinventory/internal/permission"
)

type Input struct {
	Apps     []domain.AppRecord
	Metadata []metadatadomain.MetadataRecord
	Usage    []domain.UsageRecord
	Viewer   domain.Viewer
	BaseURL  string
}

// Merge builds one WorkingRow per app. The result depends only on the
// contents of in, not on the order of any input slice, and is sorted by
// last update (newest first, unknown last) then by location.
func Merge(in Input) []domain.WorkingRow {
	metaByLocation := make(map[string]metadatadomain.MetadataRecord, len(in.Metadata))
	for _, m := range in.Metadata {
		if prev, ok := metaByLocation[m.Location]; ok && !newerMetadata(m, prev) {
			continue
		}
		metaByLocation[m.Location] = m
	}
	usageByKey := IndexUsage(in.Usage)

	rows := make([]domain.WorkingRow, 0, len(in.Apps))
	for _, app := range in.Apps {
		row := domain.WorkingRow{
			AppRecord:     app,
			ResolvedTitle: ResolveTitle(app),
			AppURL:        in.BaseURL + app.Location,
			CanEdit:       permission.CanEdit(app, in.Viewer),
		}
		if m, ok := metaByLocation[app.Location]; ok {
			row.Description = stringPtr(m.Description)
			row.Category = stringPtr(m.Category)
			row.Status = stringPtr(m.Status)
			row.MetadataUpdatedBy = stringPtr(m.UpdatedBy)
			updatedAt := m.UpdatedAt
			row.MetadataUpdatedAt = &updatedAt
		}
		if u, ok := usageByKey[LocationKey(app.Location)]; ok {
			usage := u
			row.Usage = &usage
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return lessByLastUpdated(rows[i], rows[j])
	})
	return rows
}

// ResolveTitle prefers the display title and falls back to the internal name.
func ResolveTitle(app domain.AppRecord) string {
	if strings.TrimSpace(app.Title) != "" {
		return app.Title
	}
	return app.Name
}

// LocationKey returns the trailing segment of a location, splitting on both
// "." and "/".
func LocationKey(location string) string {
	return lastSegment(location, "./")
}

// UsageKey returns the trailing "."-segment of a fully qualified app name.
func UsageKey(fqn string) string {
	return lastSegment(fqn, ".")
}

// IndexUsage keys usage rows by UsageKey. When several rows share a key the
// one with the most executions wins, ties broken by the smallest fqn.
func IndexUsage(usage []domain.UsageRecord) map[string]domain.UsageRecord {
	out := make(map[string]domain.UsageRecord, len(usage))
	for _, u := range usage {
		key := UsageKey(u.AppFQN)
		if key == "" {
			continue
		}
		prev, ok := out[key]
		if ok && !preferUsage(u, prev) {
			continue
		}
		out[key] = u
	}
	return out
}

func preferUsage(candidate, current domain.UsageRecord) bool {
	if candidate.ExecutionCount != current.ExecutionCount {
		return candidate.ExecutionCount > current.ExecutionCount
	}
	return candidate.AppFQN < current.AppFQN
}

func newerMetadata(candidate, current metadatadomain.MetadataRecord) bool {
	if !candidate.UpdatedAt.Equal(current.UpdatedAt) {
		return candidate.UpdatedAt.After(current.UpdatedAt)
	}
	return candidate.UpdatedBy < current.UpdatedBy
}

func lessByLastUpdated(a, b domain.WorkingRow) bool {
	at, bt := a.LastUpdatedTime, b.LastUpdatedTime
	switch {
	case at != nil && bt != nil && !at.Equal(*bt):
		return at.After(*bt)
	case at != nil && bt == nil:
		return true
	case at == nil && bt != nil:
		return false
	}
	return a.Location < b.Location
}

func lastSegment(value, seps string) string {
	value = strings.TrimSpace(value)
	idx := strings.LastIndexAny(value, seps)
	return strings.TrimSpace(value[idx+1:])
}

func stringPtr(v string) *string {
	return &v
}
