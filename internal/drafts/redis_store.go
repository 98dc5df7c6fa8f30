package drafts

import (
	"context"
	"encoding/json"
	"errors"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/appinventory/internal/inventory/domain"
)

const keyDrafts = "appinventory:drafts:"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore keeps drafts in one hash per viewer, field = location.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, viewer, location string) (*domain.PendingEdit, error) {
	key := newKey(viewer, location)
	raw, err := s.client.HGet(ctx, keyDrafts+key.viewer, key.location).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var edit domain.PendingEdit
	if err := json.Unmarshal(raw, &edit); err != nil {
		return nil, err
	}
	return &edit, nil
}

func (s *redisStore) Put(ctx context.Context, viewer string, edit domain.PendingEdit) error {
	key := newKey(viewer, edit.Location)
	raw, err := json.Marshal(edit)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, keyDrafts+key.viewer, key.location, raw).Err()
}

func (s *redisStore) Delete(ctx context.Context, viewer, location string) error {
	key := newKey(viewer, location)
	return s.client.HDel(ctx, keyDrafts+key.viewer, key.location).Err()
}
