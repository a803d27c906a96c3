package posts

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository stores posts through go-repository-bun. Lookups by id go
// through the cache; filtered queries always hit the database.
type BunRepository struct {
	repo  repository.Repository[*Post]
	query repository.Repository[*Post]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache wraps the repository with go-repository-cache
// when both cacheService and keySerializer are set.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewPostRepository(db)
	repo := base
	if cacheService != nil && keySerializer != nil {
		repo = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{repo: repo, query: base}
}

func (r *BunRepository) Create(ctx context.Context, record *Post) (*Post, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Post) (*Post, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"body",
			"status",
			"thumbnail",
			"custom_fields",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return result, nil
}

func (r *BunRepository) GetByName(ctx context.Context, postType, name string) (*Post, error) {
	records, _, err := r.query.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.post_type = ?", postType).Where("?TableAlias.name = ?", name)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, nameKey(postType, name))
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Key: nameKey(postType, name)}
	}
	return records[0], nil
}

func (r *BunRepository) List(ctx context.Context, postType string) ([]*Post, error) {
	records, _, err := r.query.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if postType != "" {
				q = q.Where("?TableAlias.post_type = ?", postType)
			}
			return q.Order("post_type ASC", "name ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, postType)
	}
	return records, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("post repository error: %w", err)
}
