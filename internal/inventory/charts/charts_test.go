package charts

import (
	"fmt"
	"testing"
	"time"

	"github.com/smallbiznis/appinventory/internal/inventory/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestWeekStartIsMonday(t *testing.T) {
	sunday := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(sunday))
	assert.Equal(t, monday, WeekStart(monday.Add(5*time.Hour)))
	assert.Equal(t, time.Monday, WeekStart(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)).Weekday())
}

func TestCreatedPerWeek(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	apps := []domain.AppRecord{
		{Location: "a", CreatedOn: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
		{Location: "b", CreatedOn: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		{Location: "c", CreatedOn: time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC)},
		{Location: "old", CreatedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	got := CreatedPerWeek(apps, now)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), got[0].WeekStart)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, 2, got[1].Count)
}

func TestTopUsage(t *testing.T) {
	var usage []domain.UsageRecord
	for i := 0; i < 12; i++ {
		usage = append(usage, domain.UsageRecord{
			AppFQN:         fmt.Sprintf("DB.SCHEMA.APP_%02d", i),
			ExecutionCount: int64(i * 10),
			UniqueUsers:    int64(i),
		})
	}
	apps := []domain.AppRecord{{Location: "DB.SCHEMA.APP_11"}}

	got := TopUsage(usage, apps, TopUsageLimit)
	require.Len(t, got, 10)
	assert.Equal(t, "APP_11", got[0].AppName)
	assert.Equal(t, "DB.SCHEMA.APP_11", got[0].Location)
	assert.Equal(t, int64(110), got[0].ExecutionCount)
	assert.Equal(t, "", got[1].Location)
	assert.Equal(t, "APP_02", got[9].AppName)
}

func TestCountBy(t *testing.T) {
	rows := []domain.WorkingRow{
		{AppRecord: domain.AppRecord{DatabaseName: "B", ManagerName: ptr("Bob")}},
		{AppRecord: domain.AppRecord{DatabaseName: "A", ManagerName: ptr("Bob")}},
		{AppRecord: domain.AppRecord{DatabaseName: "B"}},
	}
	assert.Equal(t, []domain.LabelCount{{Label: "B", Count: 2}, {Label: "A", Count: 1}}, CountBy(rows, ByDatabase, BreakdownLimit))
	assert.Equal(t, []domain.LabelCount{{Label: "Bob", Count: 2}}, CountBy(rows, ByManager, BreakdownLimit))
	assert.Len(t, CountBy(rows, ByDatabase, 1), 1)
}

func TestComputeStats(t *testing.T) {
	all := []domain.WorkingRow{
		{AppRecord: domain.AppRecord{CreatedByUser: ptr("a"), OrgHierarchy: ptr("x")}},
		{AppRecord: domain.AppRecord{CreatedByUser: ptr("b")}},
		{AppRecord: domain.AppRecord{}},
	}
	stats := ComputeStats(all, all[1:])
	assert.Equal(t, domain.Stats{
		TotalApps:               3,
		AppsWithCreator:         2,
		AppsWithOrg:             1,
		FilteredApps:            2,
		FilteredAppsWithCreator: 1,
	}, stats)
}

func TestSelectedDetail(t *testing.T) {
	usage := []domain.UsageRecord{{AppFQN: "DB.S.APP", ExecutionCount: 12, UniqueUsers: 3}}
	assert.Nil(t, SelectedDetail("", usage))

	d := SelectedDetail("DB.S.APP", usage)
	assert.Equal(t, int64(12), d.ExecutionCount)

	d = SelectedDetail("OTHER.X.APP", usage)
	assert.Equal(t, int64(3), d.UniqueUsers)

	d = SelectedDetail("OTHER.X.NONE", usage)
	assert.Zero(t, d.ExecutionCount)
}
