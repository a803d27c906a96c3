package posts

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps posts in memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	posts  map[uuid.UUID]*Post
	byName map[string]uuid.UUID
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		posts:  make(map[uuid.UUID]*Post),
		byName: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := clonePost(record)
	m.posts[copied.ID] = copied
	m.byName[nameKey(copied.Type, copied.Name)] = copied.ID
	return clonePost(copied), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.posts[record.ID]
	if !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	delete(m.byName, nameKey(existing.Type, existing.Name))

	copied := clonePost(record)
	m.posts[copied.ID] = copied
	m.byName[nameKey(copied.Type, copied.Name)] = copied.ID
	return clonePost(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.posts[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return clonePost(record), nil
}

func (m *MemoryRepository) GetByName(_ context.Context, postType, name string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[nameKey(postType, name)]
	if !ok {
		return nil, &NotFoundError{Key: nameKey(postType, name)}
	}
	return clonePost(m.posts[id]), nil
}

// List returns posts of postType ordered by name. A blank type lists everything.
func (m *MemoryRepository) List(_ context.Context, postType string) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Post, 0, len(m.posts))
	for _, record := range m.posts {
		if postType != "" && record.Type != postType {
			continue
		}
		out = append(out, clonePost(record))
	}
	slices.SortFunc(out, func(a, b *Post) int {
		if c := strings.Compare(a.Type, b.Type); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}
