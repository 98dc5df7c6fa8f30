package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/appinventory/internal/clock"
	"github.com/smallbiznis/appinventory/internal/metadata/domain"
	"github.com/smallbiznis/appinventory/internal/metadata/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type staticCatalog struct{}

func (staticCatalog) Categories() []string { return []string{"Analytics", "Demo"} }
func (staticCatalog) Statuses() []string   { return []string{"Active", "Deprecated"} }

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MetadataRecord{}, &domain.MetadataHistory{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:      db,
		Log:     zaptest.NewLogger(t),
		GenID:   node,
		Clock:   clk,
		Repo:    repository.Provide(),
		Catalog: staticCatalog{},
	})
	return svc, clk
}

func TestUpsertRoundTrip(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Upsert(ctx, domain.UpsertRequest{
		Location:    " DB.SCHEMA.APP ",
		Description: "Tracks weekly revenue",
		Category:    "Analytics",
		Status:      "Active",
		Editor:      "jsmith",
	})
	require.NoError(t, err)
	assert.Equal(t, "DB.SCHEMA.APP", saved.Location)
	assert.True(t, clk.Now().Equal(saved.UpdatedAt))

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Tracks weekly revenue", snapshot[0].Description)
	assert.Equal(t, "Analytics", snapshot[0].Category)
	assert.Equal(t, "Active", snapshot[0].Status)
	assert.Equal(t, "jsmith", snapshot[0].UpdatedBy)
}

func TestUpsertAppendsHistory(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, domain.UpsertRequest{Location: "L", Description: "one", Editor: "a"})
	require.NoError(t, err)
	clk.Advance(time.Hour)
	_, err = svc.Upsert(ctx, domain.UpsertRequest{Location: "L", Description: "two", Editor: "b"})
	require.NoError(t, err)

	history, err := svc.History(ctx, "L")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "two", history[0].Description)
	assert.Equal(t, "b", history[0].UpdatedBy)
	assert.Equal(t, "one", history[1].Description)

	record, err := svc.Get(ctx, "L")
	require.NoError(t, err)
	assert.Equal(t, "two", record.Description)
}

func TestUpsertValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.UpsertRequest
		err  error
	}{
		{"missing location", domain.UpsertRequest{Editor: "a"}, domain.ErrInvalidLocation},
		{"missing editor", domain.UpsertRequest{Location: "L"}, domain.ErrInvalidEditor},
		{"unknown category", domain.UpsertRequest{Location: "L", Editor: "a", Category: "Games"}, domain.ErrInvalidCategory},
		{"unknown status", domain.UpsertRequest{Location: "L", Editor: "a", Status: "Gone"}, domain.ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, tc.req)
			assert.ErrorIs(t, err, tc.err)
		})
	}

	_, err := svc.Upsert(ctx, domain.UpsertRequest{Location: "L", Editor: "a"})
	assert.NoError(t, err, "empty category and status mean not set")
}

func TestGetMissing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
