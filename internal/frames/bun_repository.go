package frames

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/devix-tecnologia/go-inframe/frames"
)

const (
	frameNamespace       = "inframe_frame"
	translationNamespace = "inframe_frame_translation"
)

// BunFrameRepository implements FrameRepository with optional caching.
type BunFrameRepository struct {
	repo         repository.Repository[*frames.Frame]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunFrameRepository creates a frame repository without caching.
func NewBunFrameRepository(db *bun.DB) *BunFrameRepository {
	return NewBunFrameRepositoryWithCache(db, nil, nil)
}

// NewBunFrameRepositoryWithCache creates a frame repository with caching services.
func NewBunFrameRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunFrameRepository {
	base := NewFrameModelRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(frameNamespace)
	}
	return &BunFrameRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunFrameRepository) Create(ctx context.Context, record *frames.Frame) (*frames.Frame, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunFrameRepository) GetByID(ctx context.Context, id uuid.UUID) (*frames.Frame, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "frame", id.String())
	}
	return record, nil
}

func (r *BunFrameRepository) GetBySlug(ctx context.Context, slug string) (*frames.Frame, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "frame", slug)
	}
	return record, nil
}

func (r *BunFrameRepository) List(ctx context.Context, status frames.Status) ([]*frames.Frame, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Relation("Translations").
				OrderExpr("?TableAlias.sort ASC")
			if status != "" {
				q = q.Where("?TableAlias.status = ?", string(status))
			}
			return q
		}),
	)
	return records, err
}

func (r *BunFrameRepository) Update(ctx context.Context, record *frames.Frame) (*frames.Frame, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunFrameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &frames.Frame{ID: id})
}

func (r *BunFrameRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunTranslationRepository implements TranslationRepository with optional caching.
type BunTranslationRepository struct {
	repo         repository.Repository[*frames.Translation]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunTranslationRepository creates a translation repository without caching.
func NewBunTranslationRepository(db *bun.DB) *BunTranslationRepository {
	return NewBunTranslationRepositoryWithCache(db, nil, nil)
}

// NewBunTranslationRepositoryWithCache creates a translation repository with caching services.
func NewBunTranslationRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunTranslationRepository {
	base := NewTranslationModelRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(translationNamespace)
	}
	return &BunTranslationRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunTranslationRepository) Create(ctx context.Context, record *frames.Translation) (*frames.Translation, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunTranslationRepository) GetByFrameAndLocale(ctx context.Context, frameID uuid.UUID, localeCode string) (*frames.Translation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.frame_id = ?", frameID).
				Where("?TableAlias.locale_code = ?", localeCode)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "frame_translation", Key: fmt.Sprintf("%s:%s", frameID, localeCode)}
	}
	return records[0], nil
}

func (r *BunTranslationRepository) ListByFrame(ctx context.Context, frameID uuid.UUID) ([]*frames.Translation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.frame_id = ?", frameID).
				OrderExpr("?TableAlias.locale_code ASC")
		}),
	)
	return records, err
}

func (r *BunTranslationRepository) Update(ctx context.Context, record *frames.Translation) (*frames.Translation, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunTranslationRepository) DeleteByFrame(ctx context.Context, frameID uuid.UUID) error {
	records, err := r.ListByFrame(ctx, frameID)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := r.repo.Delete(ctx, &frames.Translation{ID: record.ID}); err != nil {
			return err
		}
	}
	return nil
}

func (r *BunTranslationRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
