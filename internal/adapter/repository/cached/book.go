package cached

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"book-catalog-service/internal/adapter/cache"
	domain "book-catalog-service/internal/domain/book"
	"book-catalog-service/internal/domain/store"
	"book-catalog-service/internal/usecase/book"
)

const sharedLoadTimeout = 5 * time.Second

// CachedBookRepository implements book.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
type CachedBookRepository struct {
	dbRepo book.Repository
	cache  cache.BookCache
	log    *zap.Logger
	group  singleflight.Group
}

var _ book.Repository = (*CachedBookRepository)(nil)

// NewCachedBookRepository creates a new instance of CachedBookRepository.
func NewCachedBookRepository(dbRepo book.Repository, cache cache.BookCache, log *zap.Logger) *CachedBookRepository {
	return &CachedBookRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// ClassifyError delegates to the DB repository.
func (r *CachedBookRepository) ClassifyError(err error) store.ErrorKind {
	return r.dbRepo.ClassifyError(err)
}

// IsValidID delegates to the DB repository.
func (r *CachedBookRepository) IsValidID(id string) bool {
	return r.dbRepo.IsValidID(id)
}

// Create delegates to the DB repository.
func (r *CachedBookRepository) Create(ctx context.Context, b *domain.Book) error {
	return r.dbRepo.Create(ctx, b)
}

// List delegates to the DB repository.
func (r *CachedBookRepository) List(ctx context.Context, keyword string, offset, limit int64) ([]domain.Book, int64, error) {
	return r.dbRepo.List(ctx, keyword, offset, limit)
}

// GetByID retrieves a book by ID using Cache-Aside pattern.
func (r *CachedBookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	if cached, err := r.cache.Get(ctx, id); err != nil {
		r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	// single-flight so concurrent misses for one id hit the database once.
	// The shared load is detached from the cancellation of whichever caller started it.
	result, err, shared := r.group.Do(cache.Key(id), func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		if cached, err := r.cache.Get(ctx, id); err == nil && cached != nil {
			return cached, nil
		}

		b, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := r.cache.Set(ctx, b); err != nil {
			r.log.Warn("failed to cache book", zap.String("id", id), zap.Error(err))
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.log.Debug("book load shared between callers", zap.String("id", id))
	}

	b := *result.(*domain.Book)
	return &b, nil
}

// Update updates the book in DB and invalidates the cache.
func (r *CachedBookRepository) Update(ctx context.Context, id string, p domain.Patch) (*domain.Book, error) {
	b, err := r.dbRepo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id, "update")
	return b, nil
}

// Delete deletes the book from DB and invalidates the cache.
func (r *CachedBookRepository) Delete(ctx context.Context, id string) (*domain.Book, error) {
	b, err := r.dbRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id, "delete")
	return b, nil
}

func (r *CachedBookRepository) invalidate(ctx context.Context, id, op string) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.String("id", id), zap.String("op", op), zap.Error(err))
	}
}
