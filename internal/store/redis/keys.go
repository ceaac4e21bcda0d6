package redis

const (
	// KeyPrefixBookmark is the prefix for cached bookmark documents
	KeyPrefixBookmark = "bookmarks:bookmark:"
)

// BookmarkKey returns the Redis key for a bookmark by hex identifier
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}
