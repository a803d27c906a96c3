package posts

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists posts.
type Repository interface {
	Create(ctx context.Context, record *Post) (*Post, error)
	Update(ctx context.Context, record *Post) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetByName(ctx context.Context, postType, name string) (*Post, error)
	List(ctx context.Context, postType string) ([]*Post, error)
}

// NewPostRepository builds the go-repository-bun repository for posts.
func NewPostRepository(db *bun.DB) repository.Repository[*Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(p *Post) string {
			return p.ID.String()
		},
	})
}
