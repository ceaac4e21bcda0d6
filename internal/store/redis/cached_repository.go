package redis

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
)

// bookmarkRepository is the storage being cached.
type bookmarkRepository interface {
	FindAll(ctx context.Context) ([]domain.Bookmark, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Bookmark, error)
	FindByURL(ctx context.Context, url string) (*domain.Bookmark, error)
	Create(ctx context.Context, b domain.Bookmark) (*domain.Bookmark, error)
	Update(ctx context.Context, id primitive.ObjectID, req domain.UpdateBookmarkRequest) (*domain.Bookmark, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	Search(ctx context.Context, tag *string, unreadOnly bool, page, size uint32) ([]domain.Bookmark, error)
}

// bookmarkCache is implemented by *Store.
// SaveBookmark never replaces a tombstone; FillBookmark only writes an empty key.
type bookmarkCache interface {
	GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error)
	SaveBookmark(ctx context.Context, bookmark *domain.Bookmark, ttl time.Duration) error
	FillBookmark(ctx context.Context, bookmark *domain.Bookmark, ttl time.Duration) error
	ForgetBookmark(ctx context.Context, id string, ttl time.Duration) error
}

// tombstoneTTL outlives any request that loaded a record before it was deleted.
const tombstoneTTL = time.Minute

var _ bookmarkCache = (*Store)(nil)

// CachedRepository serves single-record reads from Redis and keeps the cache in step with writes.
// Cache failures are logged and never fail the call; the wrapped repository stays the source of truth.
// Listings always go to the wrapped repository.
type CachedRepository struct {
	inner  bookmarkRepository
	cache  bookmarkCache
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedRepository wraps inner with cache.
func NewCachedRepository(inner bookmarkRepository, cache bookmarkCache, ttl time.Duration, log logger.Logger) *CachedRepository {
	return &CachedRepository{inner: inner, cache: cache, ttl: ttl, logger: log}
}

func (c *CachedRepository) FindAll(ctx context.Context) ([]domain.Bookmark, error) {
	return c.inner.FindAll(ctx)
}

func (c *CachedRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Bookmark, error) {
	hex := id.Hex()
	cached, err := c.cache.GetBookmark(ctx, hex)
	switch {
	case err != nil:
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("bookmark cache read failed", logger.String("id", hex), logger.Error(err))
	case cached != nil:
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	b, err := c.inner.FindByID(ctx, id)
	if err != nil || b == nil {
		return b, err
	}
	// a delete or update may have run since the load; it wins over this copy
	if err := c.cache.FillBookmark(ctx, b, c.ttl); err != nil {
		c.logger.Warn("bookmark cache fill failed", logger.String("id", hex), logger.Error(err))
	}
	return b, nil
}

func (c *CachedRepository) FindByURL(ctx context.Context, url string) (*domain.Bookmark, error) {
	return c.inner.FindByURL(ctx, url)
}

func (c *CachedRepository) Create(ctx context.Context, b domain.Bookmark) (*domain.Bookmark, error) {
	created, err := c.inner.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	c.save(ctx, created)
	return created, nil
}

func (c *CachedRepository) Update(ctx context.Context, id primitive.ObjectID, req domain.UpdateBookmarkRequest) (*domain.Bookmark, error) {
	if req.IsEmpty() {
		return c.FindByID(ctx, id)
	}
	updated, err := c.inner.Update(ctx, id, req)
	if err != nil {
		c.invalidate(ctx, id)
		return nil, err
	}
	if updated == nil {
		c.invalidate(ctx, id)
		return nil, nil
	}
	c.save(ctx, updated)
	return updated, nil
}

func (c *CachedRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := c.inner.Delete(ctx, id)
	// invalidate even on failure: the delete may have been applied
	c.invalidate(ctx, id)
	return deleted, err
}

func (c *CachedRepository) Search(ctx context.Context, tag *string, unreadOnly bool, page, size uint32) ([]domain.Bookmark, error) {
	return c.inner.Search(ctx, tag, unreadOnly, page, size)
}

func (c *CachedRepository) save(ctx context.Context, b *domain.Bookmark) {
	if err := c.cache.SaveBookmark(ctx, b, c.ttl); err != nil {
		c.logger.Warn("bookmark cache write failed", logger.String("id", b.ID.Hex()), logger.Error(err))
	}
}

func (c *CachedRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	if err := c.cache.ForgetBookmark(ctx, id.Hex(), tombstoneTTL); err != nil {
		c.logger.Warn("bookmark cache invalidation failed", logger.String("id", id.Hex()), logger.Error(err))
	}
}
