package store

import (
	"context"
	"sync"

	"github.com/shandysiswandi/healthmon/internal/heartrate/entity"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	readings []entity.Reading
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(ctx context.Context, reading entity.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readings = append(s.readings, reading)

	return nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]entity.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Reading, len(s.readings))
	copy(out, s.readings)

	return out, nil
}

func (s *InMemoryStore) Close() error {
	return nil
}
