package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestSearchFilter(t *testing.T) {
	tests := []struct {
		name       string
		tag        *string
		unreadOnly bool
		want       bson.D
	}{
		{name: "no filters", want: bson.D{}},
		{name: "tag only", tag: ptr("go"), want: bson.D{{Key: FieldTags, Value: "go"}}},
		{name: "unread only", unreadOnly: true, want: bson.D{{Key: FieldRead, Value: false}}},
		{
			name:       "tag and unread",
			tag:        ptr("go"),
			unreadOnly: true,
			want:       bson.D{{Key: FieldTags, Value: "go"}, {Key: FieldRead, Value: false}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searchFilter(tt.tag, tt.unreadOnly))
		})
	}
}

func TestSetDocument(t *testing.T) {
	tests := []struct {
		name string
		req  domain.UpdateBookmarkRequest
		want bson.D
	}{
		{name: "empty update", req: domain.UpdateBookmarkRequest{}, want: bson.D{}},
		{
			name: "read only",
			req:  domain.UpdateBookmarkRequest{Read: ptr(true)},
			want: bson.D{{Key: FieldRead, Value: true}},
		},
		{
			name: "explicit false read is kept",
			req:  domain.UpdateBookmarkRequest{Read: ptr(false)},
			want: bson.D{{Key: FieldRead, Value: false}},
		},
		{
			name: "every field",
			req: domain.UpdateBookmarkRequest{
				URL:   ptr("https://go.dev"),
				Title: ptr("Go"),
				Tags:  ptr([]string{"lang"}),
				Read:  ptr(true),
			},
			want: bson.D{
				{Key: FieldURL, Value: "https://go.dev"},
				{Key: FieldTitle, Value: "Go"},
				{Key: FieldTags, Value: []string{"lang"}},
				{Key: FieldRead, Value: true},
			},
		},
		{
			name: "nil tags clear to empty list",
			req:  domain.UpdateBookmarkRequest{Tags: ptr[[]string](nil)},
			want: bson.D{{Key: FieldTags, Value: []string{}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, setDocument(tt.req))
		})
	}
}

func TestNewestFirst(t *testing.T) {
	assert.Equal(t, bson.D{{Key: FieldCreatedAt, Value: -1}}, newestFirst())
}
