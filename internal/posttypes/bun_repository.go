package posttypes

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"
)

// BunRepository stores post types through go-repository-bun.
type BunRepository struct {
	repo repository.Repository[*PostType]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache wraps the repository with go-repository-cache
// when both cacheService and keySerializer are set.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	var base repository.Repository[*PostType] = NewPostTypeRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *PostType) (*PostType, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("post_type repository error: %w", err)
	}
	return created, nil
}

func (r *BunRepository) GetByKey(ctx context.Context, key string) (*PostType, error) {
	result, err := r.repo.GetByIdentifier(ctx, key)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Key: key}
		}
		return nil, fmt.Errorf("post_type repository error: %w", err)
	}
	return result, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*PostType, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("post_type repository error: %w", err)
	}
	return records, nil
}
