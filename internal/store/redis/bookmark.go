package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// tombstone marks a deleted bookmark. It is never valid JSON.
const tombstone = "~deleted"

// putUnlessTombstone sets KEYS[1] to ARGV[1] unless it holds ARGV[2].
// ARGV[3] is the expiry in milliseconds, 0 keeps the key forever.
var putUnlessTombstone = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[2] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

// Store keeps JSON copies of bookmarks in Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// SaveBookmark writes a fresh copy of a bookmark for ttl. A tombstone is left in place.
func (s *Store) SaveBookmark(ctx context.Context, bookmark *domain.Bookmark, ttl time.Duration) error {
	data, err := json.Marshal(bookmark)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	keys := []string{BookmarkKey(bookmark.ID.Hex())}
	if err := putUnlessTombstone.Run(ctx, s.client, keys, data, tombstone, ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

// FillBookmark caches a bookmark loaded after a miss. It only writes an empty key,
// so it never replaces a tombstone or a newer copy written meanwhile.
func (s *Store) FillBookmark(ctx context.Context, bookmark *domain.Bookmark, ttl time.Duration) error {
	data, err := json.Marshal(bookmark)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	if err := s.client.SetNX(ctx, BookmarkKey(bookmark.ID.Hex()), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to fill bookmark: %w", err)
	}
	return nil
}

// GetBookmark retrieves a bookmark by hex ID. A miss or a tombstone returns nil and no error.
func (s *Store) GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	if string(data) == tombstone {
		return nil, nil
	}

	var bookmark domain.Bookmark
	if err := json.Unmarshal(data, &bookmark); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	bookmark.Normalize()

	return &bookmark, nil
}

// ForgetBookmark replaces a cached bookmark with a tombstone for ttl.
func (s *Store) ForgetBookmark(ctx context.Context, id string, ttl time.Duration) error {
	if err := s.client.Set(ctx, BookmarkKey(id), tombstone, ttl).Err(); err != nil {
		return fmt.Errorf("failed to forget bookmark: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
