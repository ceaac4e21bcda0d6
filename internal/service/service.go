// Package service holds the bookmark business rules: identifier validation,
// creation defaults and not-found translation.
package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Repository is the storage the service needs. Every error it returns is a store error.
type Repository interface {
	FindAll(ctx context.Context) ([]domain.Bookmark, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Bookmark, error)
	FindByURL(ctx context.Context, url string) (*domain.Bookmark, error)
	Create(ctx context.Context, b domain.Bookmark) (*domain.Bookmark, error)
	Update(ctx context.Context, id primitive.ObjectID, req domain.UpdateBookmarkRequest) (*domain.Bookmark, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	Search(ctx context.Context, tag *string, unreadOnly bool, page, size uint32) ([]domain.Bookmark, error)
}

// Service defines the bookmark operations exposed over HTTP.
type Service interface {
	List(ctx context.Context, tag *string, unreadOnly bool, page, size uint32) ([]domain.Bookmark, error)
	Get(ctx context.Context, id string) (*domain.Bookmark, error)
	Create(ctx context.Context, req domain.CreateBookmarkRequest) (*domain.Bookmark, error)
	Update(ctx context.Context, id string, req domain.UpdateBookmarkRequest) (*domain.Bookmark, error)
	Delete(ctx context.Context, id string) error
}

// BookmarkService implements Service. It is immutable after construction and shared by all requests.
type BookmarkService struct {
	repo Repository
	now  func() time.Time
}

var _ Service = (*BookmarkService)(nil)

// Option customizes a BookmarkService.
type Option func(*BookmarkService)

// WithClock replaces time.Now as the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *BookmarkService) { s.now = now }
}

// NewBookmarkService builds the service over repo.
func NewBookmarkService(repo Repository, opts ...Option) *BookmarkService {
	s := &BookmarkService{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BookmarkService) List(ctx context.Context, tag *string, unreadOnly bool, page, size uint32) ([]domain.Bookmark, error) {
	return s.repo.Search(ctx, tag, unreadOnly, page, size)
}

func (s *BookmarkService) Get(ctx context.Context, id string) (*domain.Bookmark, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	b, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// Create stamps the creation time and forces read=false; the store assigns the identifier.
func (s *BookmarkService) Create(ctx context.Context, req domain.CreateBookmarkRequest) (*domain.Bookmark, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return s.repo.Create(ctx, domain.Bookmark{
		URL:   req.URL,
		Title: req.Title,
		Tags:  tags,
		// BSON dates keep milliseconds, so the response matches what a later read returns.
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		Read:      false,
	})
}

func (s *BookmarkService) Update(ctx context.Context, id string, req domain.UpdateBookmarkRequest) (*domain.Bookmark, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	b, err := s.repo.Update(ctx, oid, req)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (s *BookmarkService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, oid)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// parseID validates a hex ObjectID before anything reaches the store.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}
