package memory

import (
	"context"
	"sync"

	"trivia-board-host/internal/domain"
)

// SnapshotStore is an in-memory implementation of app.SnapshotStore.
// It is lost when the process exits; useful for tests and demos.
type SnapshotStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		values: make(map[string][]byte),
	}
}

// NewSeededSnapshotStore starts with the given key/value pairs.
func NewSeededSnapshotStore(seed map[string][]byte) *SnapshotStore {
	s := NewSnapshotStore()
	for k, v := range seed {
		s.values[k] = append([]byte(nil), v...)
	}
	return s
}

func (s *SnapshotStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *SnapshotStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}
