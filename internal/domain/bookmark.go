package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bookmark is a persisted bookmark record.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the store on insert.
	// It is the zero ObjectID only on a not-yet-inserted instance.
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitzero"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	URL   string   `bson:"url" json:"url"`
	Title string   `bson:"title" json:"title"`
	Tags  []string `bson:"tags" json:"tags"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set once by the service. BSON dates carry milliseconds only.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// Read is the only field a client may flip after creation, besides the content.
	Read bool `bson:"read" json:"read"`
}

// Normalize makes a decoded record safe to serialize: tags are never null.
func (b *Bookmark) Normalize() {
	if b.Tags == nil {
		b.Tags = []string{}
	}
}

// CreateBookmarkRequest is the body of POST /api/bookmarks.
// The identifier, timestamp and read flag are server-assigned and not accepted here.
type CreateBookmarkRequest struct {
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Rules declares the field rules checked before the request reaches the service.
func (r CreateBookmarkRequest) Rules() []Rule {
	return []Rule{
		{Field: "url", Value: r.URL, Tag: "url", Message: "Must be a valid URL"},
		{Field: "url", Value: r.URL, Tag: "min=1", Message: "URL is required"},
		{Field: "title", Value: r.Title, Tag: "min=1,max=200", Message: "Title must be 1-200 characters"},
		{Field: "tags", Value: r.Tags, Tag: "max=10", Message: "Maximum 10 tags allowed"},
	}
}

// UpdateBookmarkRequest is the body of PUT /api/bookmarks/{id}.
// A nil field leaves the stored value untouched.
type UpdateBookmarkRequest struct {
	URL   *string   `json:"url"`
	Title *string   `json:"title"`
	Tags  *[]string `json:"tags"`
	Read  *bool     `json:"read"`
}

// Rules declares the field rules for the fields that are present.
func (r UpdateBookmarkRequest) Rules() []Rule {
	rules := make([]Rule, 0, 3)
	if r.URL != nil {
		rules = append(rules, Rule{Field: "url", Value: *r.URL, Tag: "url", Message: "Must be a valid URL"})
	}
	if r.Title != nil {
		rules = append(rules, Rule{Field: "title", Value: *r.Title, Tag: "min=1,max=200", Message: "Title must be 1-200 characters"})
	}
	if r.Tags != nil {
		rules = append(rules, Rule{Field: "tags", Value: *r.Tags, Tag: "max=10", Message: "Maximum 10 tags allowed"})
	}
	return rules
}

// IsEmpty reports whether the update carries no field at all.
func (r UpdateBookmarkRequest) IsEmpty() bool {
	return r.URL == nil && r.Title == nil && r.Tags == nil && r.Read == nil
}

// Rule is a single field rule: Tag is a validator expression, Message is what the client sees.
type Rule struct {
	Field   string
	Value   any
	Tag     string
	Message string
}

// Validatable is implemented by every request body accepted by the API.
type Validatable interface {
	Rules() []Rule
}

const (
	// DefaultPageSize is used when the client sends no size.
	DefaultPageSize uint32 = 20
)

// SearchParams are the query parameters of GET /api/bookmarks.
type SearchParams struct {
	Tag        *string `schema:"tag"`
	UnreadOnly bool    `schema:"unread_only"`
	Page       uint32  `schema:"page"`
	Size       uint32  `schema:"size"`
}

// NewSearchParams returns params holding the defaults.
func NewSearchParams() SearchParams {
	return SearchParams{Size: DefaultPageSize}
}

// Clamp bounds Size to [1, limit]. A zero size falls back to def; limit == 0 disables the upper bound.
func (p *SearchParams) Clamp(def, limit uint32) {
	if def == 0 {
		def = DefaultPageSize
	}
	if p.Size == 0 {
		p.Size = def
	}
	if limit > 0 && p.Size > limit {
		p.Size = limit
	}
}
