// Package charts derives the aggregate series shown next to the app table.
package charts

import (
	"sort"
	"time"

	"github.com/smallbiznis/appinventory/internal/inventory/domain"
	"github.com/smallbiznis/appinventory/internal/inventory/merge"
)

const (
	TopUsageLimit   = 10
	BreakdownLimit  = 15
	createdLookback = 1
)

// WeekStart returns midnight UTC of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// CreatedPerWeek counts apps by creation week for weeks starting within the
// last year, oldest week first.
func CreatedPerWeek(apps []domain.AppRecord, now time.Time) []domain.WeeklyCount {
	cutoff := now.UTC().AddDate(-createdLookback, 0, 0)
	counts := make(map[time.Time]int)
	for _, app := range apps {
		if app.CreatedOn.IsZero() {
			continue
		}
		week := WeekStart(app.CreatedOn)
		if week.Before(cutoff) {
			continue
		}
		counts[week]++
	}

	out := make([]domain.WeeklyCount, 0, len(counts))
	for week, n := range counts {
		out = append(out, domain.WeeklyCount{WeekStart: week, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekStart.Before(out[j].WeekStart)
	})
	return out
}

// TopUsage returns up to limit usage rows by execution count, highest first.
// Each entry carries the inventory location whose trailing segment matches.
func TopUsage(usage []domain.UsageRecord, apps []domain.AppRecord, limit int) []domain.TopApp {
	sorted := append([]domain.UsageRecord(nil), usage...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ExecutionCount != sorted[j].ExecutionCount {
			return sorted[i].ExecutionCount > sorted[j].ExecutionCount
		}
		return sorted[i].AppFQN < sorted[j].AppFQN
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	locationByKey := make(map[string]string, len(apps))
	for _, app := range apps {
		key := merge.LocationKey(app.Location)
		if prev, ok := locationByKey[key]; ok && prev < app.Location {
			continue
		}
		locationByKey[key] = app.Location
	}

	out := make([]domain.TopApp, 0, len(sorted))
	for _, u := range sorted {
		key := merge.UsageKey(u.AppFQN)
		out = append(out, domain.TopApp{
			AppFQN:         u.AppFQN,
			AppName:        key,
			Location:       locationByKey[key],
			ExecutionCount: u.ExecutionCount,
			UniqueUsers:    u.UniqueUsers,
		})
	}
	return out
}

// CountBy tallies non-empty labels, most frequent first, ties by label.
func CountBy(rows []domain.WorkingRow, label func(domain.WorkingRow) string, limit int) []domain.LabelCount {
	counts := make(map[string]int)
	for _, r := range rows {
		if l := label(r); l != "" {
			counts[l]++
		}
	}

	out := make([]domain.LabelCount, 0, len(counts))
	for l, n := range counts {
		out = append(out, domain.LabelCount{Label: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func ByDatabase(r domain.WorkingRow) string {
	return r.DatabaseName
}

func ByManager(r domain.WorkingRow) string {
	if r.ManagerName == nil {
		return ""
	}
	return *r.ManagerName
}

// ComputeStats counts totals over the full and the filtered table.
func ComputeStats(all, filtered []domain.WorkingRow) domain.Stats {
	stats := domain.Stats{
		TotalApps:    len(all),
		FilteredApps: len(filtered),
	}
	for _, r := range all {
		if r.CreatedByUser != nil {
			stats.AppsWithCreator++
		}
		if r.OrgHierarchy != nil {
			stats.AppsWithOrg++
		}
	}
	for _, r := range filtered {
		if r.CreatedByUser != nil {
			stats.FilteredAppsWithCreator++
		}
	}
	return stats
}

// SelectedDetail returns usage figures for the selected app. An exact fqn
// match wins over a trailing-segment match. Zero counts mean no usage data.
func SelectedDetail(selected string, usage []domain.UsageRecord) *domain.SelectedAppDetail {
	if selected == "" {
		return nil
	}
	detail := &domain.SelectedAppDetail{Location: selected}
	for _, u := range usage {
		if u.AppFQN == selected {
			detail.ExecutionCount = u.ExecutionCount
			detail.UniqueUsers = u.UniqueUsers
			return detail
		}
	}
	if u, ok := merge.IndexUsage(usage)[merge.LocationKey(selected)]; ok {
		detail.ExecutionCount = u.ExecutionCount
		detail.UniqueUsers = u.UniqueUsers
	}
	return detail
}

// Build derives every chart for one browse request.
func Build(apps []domain.AppRecord, usage []domain.UsageRecord, filtered []domain.WorkingRow, now time.Time) domain.Charts {
	return domain.Charts{
		CreatedPerWeek: CreatedPerWeek(apps, now),
		TopUsage:       TopUsage(usage, apps, TopUsageLimit),
		ByDatabase:     CountBy(filtered, ByDatabase, BreakdownLimit),
		ByManager:      CountBy(filtered, ByManager, BreakdownLimit),
	}
}
