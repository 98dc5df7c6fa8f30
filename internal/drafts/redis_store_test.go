package drafts

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/appinventory/internal/inventory/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedis connects to REDIS_TEST_ADDR (default localhost:6379) and skips
// the test when no server answers.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	client := newTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	viewer := "viewer-" + uuid.NewString()
	hash := keyDrafts + viewer
	t.Cleanup(func() { client.Del(context.Background(), hash) })

	edit := domain.PendingEdit{
		Location:    "DB.S.DEMO_APP",
		Description: "Tracks demo usage.",
		Category:    "Demo",
		Status:      "Active",
		CreatedAt:   time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, store.Put(ctx, viewer, edit))

	raw, err := client.HGet(ctx, hash, "DB.S.DEMO_APP").Bytes()
	require.NoError(t, err)
	var stored domain.PendingEdit
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, "Tracks demo usage.", stored.Description)

	got, err := store.Get(ctx, viewer, "DB.S.DEMO_APP")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, edit.Description, got.Description)
	assert.Equal(t, edit.Category, got.Category)
	assert.True(t, edit.CreatedAt.Equal(got.CreatedAt))

	missing, err := store.Get(ctx, viewer, "DB.S.OTHER")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Delete(ctx, viewer, "DB.S.DEMO_APP"))
	got, err = store.Get(ctx, viewer, "DB.S.DEMO_APP")
	require.NoError(t, err)
	assert.Nil(t, got)
}
