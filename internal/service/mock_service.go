package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// MockService is a test double for the HTTP layer.
type MockService struct {
	mock.Mock
}

var _ Service = (*MockService)(nil)

func (m *MockService) List(ctx context.Context, tag *string, unreadOnly bool, page, size uint32) ([]domain.Bookmark, error) {
	args := m.Called(ctx, tag, unreadOnly, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bookmark), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, id string) (*domain.Bookmark, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bookmark), args.Error(1)
}

func (m *MockService) Create(ctx context.Context, req domain.CreateBookmarkRequest) (*domain.Bookmark, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bookmark), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id string, req domain.UpdateBookmarkRequest) (*domain.Bookmark, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bookmark), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
