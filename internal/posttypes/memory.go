package posttypes

import (
	"context"
	"sync"
)

// MemoryRepository keeps post types in memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	types map[string]*PostType
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		types: make(map[string]*PostType),
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *PostType) (*PostType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := clonePostType(record)
	m.types[copied.Key] = copied
	return clonePostType(copied), nil
}

func (m *MemoryRepository) GetByKey(_ context.Context, key string) (*PostType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.types[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return clonePostType(record), nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*PostType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*PostType, 0, len(m.types))
	for _, record := range m.types {
		out = append(out, clonePostType(record))
	}
	return out, nil
}
