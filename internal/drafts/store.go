// Package drafts keeps pending AI-generated metadata edits until the viewer
// saves or discards them.
package drafts

import (
	"context"
	"strings"
	"sync"

	"github.com/smallbiznis/appinventory/internal/inventory/domain"
)

// Store holds at most one PendingEdit per (viewer, location). Entries never
// expire on their own.
type Store interface {
	Get(ctx context.Context, viewer, location string) (*domain.PendingEdit, error)
	Put(ctx context.Context, viewer string, edit domain.PendingEdit) error
	Delete(ctx context.Context, viewer, location string) error
}

type draftKey struct {
	viewer   string
	location string
}

func newKey(viewer, location string) draftKey {
	return draftKey{
		viewer:   strings.ToLower(strings.TrimSpace(viewer)),
		location: strings.TrimSpace(location),
	}
}

type memoryStore struct {
	mu    sync.RWMutex
	items map[draftKey]domain.PendingEdit
}

func NewMemoryStore() Store {
	return &memoryStore{items: make(map[draftKey]domain.PendingEdit)}
}

func (s *memoryStore) Get(ctx context.Context, viewer, location string) (*domain.PendingEdit, error) {
	s.mu.RLock()
	edit, ok := s.items[newKey(viewer, location)]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &edit, nil
}

func (s *memoryStore) Put(ctx context.Context, viewer string, edit domain.PendingEdit) error {
	s.mu.Lock()
	s.items[newKey(viewer, edit.Location)] = edit
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, viewer, location string) error {
	s.mu.Lock()
	delete(s.items, newKey(viewer, location))
	s.mu.Unlock()
	return nil
}
