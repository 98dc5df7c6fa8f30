package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/appinventory/internal/metadata/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MetadataRecord{}, &domain.MetadataHistory{}))
	return db
}

func TestUpsertInsertsThenUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := Provide()
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	err := repo.Upsert(ctx, db, &domain.MetadataRecord{
		Location:    "DB.SCHEMA.APP_ONE",
		Description: "first",
		Category:    "Analytics",
		UpdatedBy:   "jsmith",
		UpdatedAt:   now,
	})
	require.NoError(t, err)

	err = repo.Upsert(ctx, db, &domain.MetadataRecord{
		Location:    "DB.SCHEMA.APP_ONE",
		Description: "second",
		Category:    "Demo",
		Status:      "Active",
		UpdatedBy:   "alee",
		UpdatedAt:   now.Add(time.Minute),
	})
	require.NoError(t, err)

	records, err := repo.List(ctx, db)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "second", records[0].Description)
	assert.Equal(t, "Demo", records[0].Category)
	assert.Equal(t, "Active", records[0].Status)
	assert.Equal(t, "alee", records[0].UpdatedBy)
}

func TestFindByLocationMissing(t *testing.T) {
	db := openTestDB(t)
	record, err := Provide().FindByLocation(context.Background(), db, "DB.SCHEMA.NOPE")
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestListHistoryNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := Provide()
	ctx := context.Background()
	node, _ := snowflake.NewNode(1)
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	for i, desc := range []string{"v1", "v2", "v3"} {
		require.NoError(t, repo.InsertHistory(ctx, db, &domain.MetadataHistory{
			ID:          node.Generate(),
			Location:    "DB.SCHEMA.APP_ONE",
			Description: desc,
			UpdatedBy:   "jsmith",
			UpdatedAt:   base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.InsertHistory(ctx, db, &domain.MetadataHistory{
		ID:        node.Generate(),
		Location:  "DB.SCHEMA.OTHER",
		UpdatedBy: "jsmith",
		UpdatedAt: base,
	}))

	entries, err := repo.ListHistory(ctx, db, "DB.SCHEMA.APP_ONE", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "v3", entries[0].Description)
	assert.Equal(t, "v2", entries[1].Description)
}
