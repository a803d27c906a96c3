package posttypes

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists post types.
type Repository interface {
	Create(ctx context.Context, record *PostType) (*PostType, error)
	GetByKey(ctx context.Context, key string) (*PostType, error)
	List(ctx context.Context) ([]*PostType, error)
}

// NewPostTypeRepository builds the go-repository-bun repository keyed by type_key.
func NewPostTypeRepository(db *bun.DB) repository.Repository[*PostType] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PostType]{
		NewRecord: func() *PostType { return &PostType{} },
		GetID: func(pt *PostType) uuid.UUID {
			return pt.ID
		},
		SetID: func(pt *PostType, id uuid.UUID) {
			pt.ID = id
		},
		GetIdentifier: func() string {
			return "type_key"
		},
		GetIdentifierValue: func(pt *PostType) string {
			return pt.Key
		},
	})
}
