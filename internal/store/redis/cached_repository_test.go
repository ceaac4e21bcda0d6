package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
)

// memoryCache is an in-process bookmarkCache. A nil entry is a tombstone.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string]*domain.Bookmark
	failGet bool
	failSet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]*domain.Bookmark{}}
}

func (m *memoryCache) GetBookmark(_ context.Context, id string) (*domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("redis down")
	}
	b := m.items[id]
	if b == nil {
		return nil, nil
	}
	out := *b
	return &out, nil
}

func (m *memoryCache) SaveBookmark(_ context.Context, b *domain.Bookmark, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("redis down")
	}
	if cur, ok := m.items[b.ID.Hex()]; ok && cur == nil {
		return nil
	}
	stored := *b
	m.items[b.ID.Hex()] = &stored
	return nil
}

func (m *memoryCache) FillBookmark(_ context.Context, b *domain.Bookmark, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("redis down")
	}
	if _, ok := m.items[b.ID.Hex()]; ok {
		return nil
	}
	stored := *b
	m.items[b.ID.Hex()] = &stored
	return nil
}

func (m *memoryCache) ForgetBookmark(_ context.Context, id string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = nil
	return nil
}

func (m *memoryCache) has(id primitive.ObjectID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id.Hex()] != nil
}

func (m *memoryCache) tombstoned(id primitive.ObjectID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id.Hex()]
	return ok && b == nil
}

func TestCachedRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	oid := primitive.NewObjectID()
	stored := &domain.Bookmark{ID: oid, URL: "https://go.dev", Title: "Go", Tags: []string{}}

	t.Run("miss loads and fills the cache", func(t *testing.T) {
		repo := new(service.MockRepository)
		cache := newMemoryCache()
		repo.On("FindByID", ctx, oid).Return(stored, nil).Once()

		c := NewCachedRepository(repo, cache, time.Minute, logger.NewNop())
		got, err := c.FindByID(ctx, oid)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
		assert.True(t, cache.has(oid))

		// second read is served from the cache; the mock allows only one call
		got, err = c.FindByID(ctx, oid)
		require.NoError(t, err)
		assert.Equal(t, stored.URL, got.URL)
		repo.AssertExpectations(t)
	})

	t.Run("cache failure falls through", func(t *testing.T) {
		repo := new(service.MockRepository)
		cache := newMemoryCache()
		cache.failGet = true
		cache.failSet = true
		repo.On("FindByID", ctx, oid).Return(stored, nil).Once()

		got, err := NewCachedRepository(repo, cache, time.Minute, logger.NewNop()).FindByID(ctx, oid)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("absent record is not cached", func(t *testing.T) {
		repo := new(service.MockRepository)
		cache := newMemoryCache()
		repo.On("FindByID", ctx, oid).Return(nil, nil).Once()

		got, err := NewCachedRepository(repo, cache, time.Minute, logger.NewNop()).FindByID(ctx, oid)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.False(t, cache.has(oid))
	})
}

func TestCachedRepository_WritesKeepCacheInStep(t *testing.T) {
	ctx := context.Background()
	oid := primitive.NewObjectID()
	read := true
	req := domain.UpdateBookmarkRequest{Read: &read}

	t.Run("update writes through", func(t *testing.T) {
		repo := new(service.MockRepository)
		cache := newMemoryCache()
		updated := &domain.Bookmark{ID: oid, Read: true, Tags: []string{}}
		repo.On("Update", ctx, oid, req).Return(updated, nil).Once()

		got, err := NewCachedRepository(repo, cache, time.Minute, logger.NewNop()).Update(ctx, oid, req)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
		cached, _ := cache.GetBookmark(ctx, oid.Hex())
		require.NotNil(t, cached)
		assert.True(t, cached.Read)
	})

	t.Run("update of missing record invalidates", func(t *testing.T) {
		repo := new(service.MockRepository)
		cache := newMemoryCache()
		require.NoError(t, cache.SaveBookmark(ctx, &domain.Bookmark{ID: oid}, time.Minute))
		repo.On("Update", ctx, oid, req).Return(nil, nil).Once()

		got, err := NewCachedRepository(repo, cache, time.Minute, logger.NewNop()).Update(ctx, oid, req)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.False(t, cache.has(oid))
	})

	t.Run("delete invalidates", func(t *testing.T) {
		repo := new(service.MockRepository)
		cache := newMemoryCache()
		require.NoError(t, cache.SaveBookmark(ctx, &domain.Bookmark{ID: oid}, time.Minute))
		repo.On("Delete", ctx, oid).Return(true, nil).Once()

		deleted, err := NewCachedRepository(repo, cache, time.Minute, logger.NewNop()).Delete(ctx, oid)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.False(t, cache.has(oid))
		assert.True(t, cache.tombstoned(oid))
	})

	t.Run("create fills the cache", func(t *testing.T) {
		repo := new(service.MockRepository)
		cache := newMemoryCache()
		in := domain.Bookmark{URL: "https://go.dev", Title: "Go"}
		repo.On("Create", ctx, in).Return(&domain.Bookmark{ID: oid, URL: in.URL, Title: in.Title}, nil).Once()

		_, err := NewCachedRepository(repo, cache, time.Minute, logger.NewNop()).Create(ctx, in)
		require.NoError(t, err)
		assert.True(t, cache.has(oid))
	})
}

func TestCachedRepository_StaleFillLosesToConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	oid := primitive.NewObjectID()
	loaded := &domain.Bookmark{ID: oid, URL: "https://go.dev", Title: "old", Tags: []string{}}

	t.Run("delete during a miss stays deleted", func(t *testing.T) {
		repo := new(service.MockRepository)
		cache := newMemoryCache()
		c := NewCachedRepository(repo, cache, time.Minute, logger.NewNop())

		repo.On("Delete", ctx, oid).Return(true, nil).Once()
		// the delete lands after the load but before the lookup writes back
		repo.On("FindByID", ctx, oid).Run(func(mock.Arguments) {
			deleted, err := c.Delete(ctx, oid)
			require.NoError(t, err)
			require.True(t, deleted)
		}).Return(loaded, nil).Once()

		got, err := c.FindByID(ctx, oid)
		require.NoError(t, err)
		assert.Equal(t, loaded, got)
		assert.False(t, cache.has(oid))
		assert.True(t, cache.tombstoned(oid))

		// the next read misses and sees the store's answer
		repo.On("FindByID", ctx, oid).Return(nil, nil).Once()
		got, err = c.FindByID(ctx, oid)
		require.NoError(t, err)
		assert.Nil(t, got)
		repo.AssertExpectations(t)
	})

	t.Run("update during a miss keeps the newer copy", func(t *testing.T) {
		repo := new(service.MockRepository)
		cache := newMemoryCache()
		c := NewCachedRepository(repo, cache, time.Minute, logger.NewNop())

		title := "new"
		req := domain.UpdateBookmarkRequest{Title: &title}
		updated := &domain.Bookmark{ID: oid, URL: loaded.URL, Title: title, Tags: []string{}}
		repo.On("Update", ctx, oid, req).Return(updated, nil).Once()
		repo.On("FindByID", ctx, oid).Run(func(mock.Arguments) {
			_, err := c.Update(ctx, oid, req)
			require.NoError(t, err)
		}).Return(loaded, nil).Once()

		_, err := c.FindByID(ctx, oid)
		require.NoError(t, err)

		cached, err := cache.GetBookmark(ctx, oid.Hex())
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, "new", cached.Title)
	})

	t.Run("write-through never revives a deleted record", func(t *testing.T) {
		repo := new(service.MockRepository)
		cache := newMemoryCache()
		c := NewCachedRepository(repo, cache, time.Minute, logger.NewNop())

		read := true
		req := domain.UpdateBookmarkRequest{Read: &read}
		repo.On("Delete", ctx, oid).Return(true, nil).Once()
		// the update's store write succeeded, then a delete ran before it reached the cache
		repo.On("Update", ctx, oid, req).Run(func(mock.Arguments) {
			_, err := c.Delete(ctx, oid)
			require.NoError(t, err)
		}).Return(&domain.Bookmark{ID: oid, Read: true, Tags: []string{}}, nil).Once()

		_, err := c.Update(ctx, oid, req)
		require.NoError(t, err)
		assert.True(t, cache.tombstoned(oid))
	})
}

func TestCachedRepository_ListingsBypassCache(t *testing.T) {
	ctx := context.Background()
	repo := new(service.MockRepository)
	want := []domain.Bookmark{{Title: "a"}}
	repo.On("Search", ctx, (*string)(nil), false, uint32(0), uint32(20)).Return(want, nil).Once()
	repo.On("FindAll", ctx).Return(want, nil).Once()

	c := NewCachedRepository(repo, newMemoryCache(), time.Minute, logger.NewNop())

	got, err := c.Search(ctx, nil, false, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = c.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestBookmarkKey(t *testing.T) {
	assert.Equal(t, "bookmarks:bookmark:507f1f77bcf86cd799439011", BookmarkKey("507f1f77bcf86cd799439011"))
}
