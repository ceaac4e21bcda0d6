package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

var malformedIDs = []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz", "507f1f77bcf86cd79943901", "507f1f77bcf86cd7994390111"}

func TestGet(t *testing.T) {
	ctx := context.Background()
	oid := primitive.NewObjectID()

	t.Run("returns the record", func(t *testing.T) {
		repo := new(MockRepository)
		want := &domain.Bookmark{ID: oid, URL: "https://go.dev", Title: "Go", Tags: []string{}}
		repo.On("FindByID", ctx, oid).Return(want, nil).Once()

		got, err := NewBookmarkService(repo).Get(ctx, oid.Hex())

		require.NoError(t, err)
		assert.Equal(t, want, got)
		repo.AssertExpectations(t)
	})

	t.Run("missing record is not found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, oid).Return(nil, nil).Once()

		_, err := NewBookmarkService(repo).Get(ctx, oid.Hex())

		assert.True(t, domain.IsKind(err, domain.KindNotFound))
		repo.AssertExpectations(t)
	})

	t.Run("store errors pass through", func(t *testing.T) {
		repo := new(MockRepository)
		storeErr := domain.StoreError(errors.New("db down"))
		repo.On("FindByID", ctx, oid).Return(nil, storeErr).Once()

		_, err := NewBookmarkService(repo).Get(ctx, oid.Hex())

		assert.Same(t, storeErr, err)
	})
}

func TestMalformedIDsNeverReachTheStore(t *testing.T) {
	ctx := context.Background()
	read := true

	for _, id := range malformedIDs {
		t.Run(id, func(t *testing.T) {
			repo := new(MockRepository)
			svc := NewBookmarkService(repo)

			_, err := svc.Get(ctx, id)
			assert.True(t, domain.IsKind(err, domain.KindInvalidID), "get")

			_, err = svc.Update(ctx, id, domain.UpdateBookmarkRequest{Read: &read})
			assert.True(t, domain.IsKind(err, domain.KindInvalidID), "update")

			err = svc.Delete(ctx, id)
			assert.True(t, domain.IsKind(err, domain.KindInvalidID), "delete")

			// no expectations were registered: any repository call would panic
			repo.AssertExpectations(t)
		})
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.FixedZone("CET", 3600))
	wantTime := fixed.UTC().Truncate(time.Millisecond)

	t.Run("applies server defaults", func(t *testing.T) {
		repo := new(MockRepository)
		oid := primitive.NewObjectID()

		repo.On("Create", ctx, mock.MatchedBy(func(b domain.Bookmark) bool {
			return b.ID.IsZero() &&
				b.URL == "https://go.dev" &&
				b.Title == "Go" &&
				assert.ObjectsAreEqual([]string{"lang"}, b.Tags) &&
				b.CreatedAt.Equal(wantTime) &&
				b.CreatedAt.Location() == time.UTC &&
				!b.Read
		})).Return(&domain.Bookmark{ID: oid, URL: "https://go.dev", Title: "Go", Tags: []string{"lang"}, CreatedAt: wantTime}, nil).Once()

		svc := NewBookmarkService(repo, WithClock(func() time.Time { return fixed }))
		got, err := svc.Create(ctx, domain.CreateBookmarkRequest{URL: "https://go.dev", Title: "Go", Tags: []string{"lang"}})

		require.NoError(t, err)
		assert.Equal(t, oid, got.ID)
		assert.False(t, got.Read)
		repo.AssertExpectations(t)
	})

	t.Run("nil tags become an empty list", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(b domain.Bookmark) bool {
			return b.Tags != nil && len(b.Tags) == 0
		})).Return(&domain.Bookmark{}, nil).Once()

		_, err := NewBookmarkService(repo).Create(ctx, domain.CreateBookmarkRequest{URL: "https://go.dev", Title: "Go"})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("timestamp falls inside the call window", func(t *testing.T) {
		repo := new(MockRepository)
		var stored domain.Bookmark
		repo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			stored = args.Get(1).(domain.Bookmark)
		}).Return(&domain.Bookmark{}, nil).Once()

		before := time.Now().Truncate(time.Millisecond)
		_, err := NewBookmarkService(repo).Create(ctx, domain.CreateBookmarkRequest{URL: "https://go.dev", Title: "Go"})
		after := time.Now()

		require.NoError(t, err)
		assert.False(t, stored.CreatedAt.Before(before))
		assert.False(t, stored.CreatedAt.After(after))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	oid := primitive.NewObjectID()
	read := true
	req := domain.UpdateBookmarkRequest{Read: &read}

	t.Run("returns updated record", func(t *testing.T) {
		repo := new(MockRepository)
		want := &domain.Bookmark{ID: oid, Read: true, Tags: []string{}}
		repo.On("Update", ctx, oid, req).Return(want, nil).Once()

		got, err := NewBookmarkService(repo).Update(ctx, oid.Hex(), req)

		require.NoError(t, err)
		assert.Equal(t, want, got)
		repo.AssertExpectations(t)
	})

	t.Run("missing record is not found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Update", ctx, oid, req).Return(nil, nil).Once()

		_, err := NewBookmarkService(repo).Update(ctx, oid.Hex(), req)

		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	oid := primitive.NewObjectID()

	tests := []struct {
		name     string
		deleted  bool
		repoErr  error
		wantKind domain.ErrorKind
	}{
		{name: "deleted", deleted: true},
		{name: "nothing deleted", deleted: false, wantKind: domain.KindNotFound},
		{name: "store failure", repoErr: domain.StoreError(errors.New("db down")), wantKind: domain.KindStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("Delete", ctx, oid).Return(tt.deleted, tt.repoErr).Once()

			err := NewBookmarkService(repo).Delete(ctx, oid.Hex())

			if tt.wantKind == 0 {
				require.NoError(t, err)
			} else {
				assert.True(t, domain.IsKind(err, tt.wantKind))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	tag := "go"
	want := []domain.Bookmark{{Title: "Go"}}

	repo := new(MockRepository)
	repo.On("Search", ctx, &tag, true, uint32(1), uint32(2)).Return(want, nil).Once()

	got, err := NewBookmarkService(repo).List(ctx, &tag, true, 1, 2)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}
