package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Document field names.
const (
	FieldID        = "_id"
	FieldURL       = "url"
	FieldTitle     = "title"
	FieldTags      = "tags"
	FieldCreatedAt = "created_at"
	FieldRead      = "read"
)

// Repository is the only component issuing queries against the bookmarks collection.
// Every failure it returns is a domain store error.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository binds a repository to collection in db.
func NewRepository(db *mongo.Database, collection string) *Repository {
	return &Repository{coll: db.Collection(collection)}
}

// FindAll returns every bookmark, newest first.
func (r *Repository) FindAll(ctx context.Context) ([]domain.Bookmark, error) {
	return r.find(ctx, bson.D{}, options.Find().SetSort(newestFirst()))
}

// FindByID returns the bookmark with id, or nil when there is none.
func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Bookmark, error) {
	return r.findOne(ctx, bson.D{{Key: FieldID, Value: id}})
}

// FindByURL returns the first bookmark pointing at url, or nil when there is none.
func (r *Repository) FindByURL(ctx context.Context, url string) (*domain.Bookmark, error) {
	return r.findOne(ctx, bson.D{{Key: FieldURL, Value: url}})
}

// Create inserts b and returns it with the store-assigned identifier.
func (r *Repository) Create(ctx context.Context, b domain.Bookmark) (*domain.Bookmark, error) {
	b.ID = primitive.NilObjectID
	b.Normalize()

	res, err := r.coll.InsertOne(ctx, b)
	if err != nil {
		return nil, domain.StoreError(fmt.Errorf("insert bookmark: %w", err))
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, domain.StoreError(fmt.Errorf("insert bookmark: unexpected id type %T", res.InsertedID))
	}
	b.ID = oid
	return &b, nil
}

// Update sets only the fields present in req and returns the record as stored afterwards.
// An empty update touches nothing and returns the current record.
// It returns nil when no bookmark has id.
func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, req domain.UpdateBookmarkRequest) (*domain.Bookmark, error) {
	set := setDocument(req)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b domain.Bookmark
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: FieldID, Value: id}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StoreError(fmt.Errorf("update bookmark %s: %w", id.Hex(), err))
	}
	b.Normalize()
	return &b, nil
}

// Delete removes the bookmark with id and reports whether one was removed.
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: FieldID, Value: id}})
	if err != nil {
		return false, domain.StoreError(fmt.Errorf("delete bookmark %s: %w", id.Hex(), err))
	}
	return res.DeletedCount > 0, nil
}

// Search lists bookmarks matching the optional tag and unread filters, newest first,
// skipping page*size records and returning at most size. A zero size means no limit.
func (r *Repository) Search(ctx context.Context, tag *string, unreadOnly bool, page, size uint32) ([]domain.Bookmark, error) {
	opts := options.Find().
		SetSort(newestFirst()).
		SetSkip(int64(page) * int64(size)).
		SetLimit(int64(size))
	return r.find(ctx, searchFilter(tag, unreadOnly), opts)
}

// EnsureIndexes creates the indexes Search relies on. It is idempotent.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: newestFirst(), Options: options.Index().SetName("created_at_desc")},
		{Keys: bson.D{{Key: FieldTags, Value: 1}}, Options: options.Index().SetName("tags")},
	})
	if err != nil {
		return domain.StoreError(fmt.Errorf("create indexes: %w", err))
	}
	return nil
}

// Ping checks that the primary is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return domain.StoreError(fmt.Errorf("ping: %w", err))
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, filter bson.D) (*domain.Bookmark, error) {
	var b domain.Bookmark
	err := r.coll.FindOne(ctx, filter).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StoreError(fmt.Errorf("find bookmark: %w", err))
	}
	b.Normalize()
	return &b, nil
}

func (r *Repository) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]domain.Bookmark, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, domain.StoreError(fmt.Errorf("find bookmarks: %w", err))
	}

	var out []domain.Bookmark
	// All drains and closes the cursor.
	if err := cur.All(ctx, &out); err != nil {
		return nil, domain.StoreError(fmt.Errorf("decode bookmarks: %w", err))
	}
	if out == nil {
		out = []domain.Bookmark{}
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

// searchFilter ANDs a tag equality clause (when tag is given) with a read=false clause
// (when unreadOnly). Equality on an array field matches any element.
func searchFilter(tag *string, unreadOnly bool) bson.D {
	filter := bson.D{}
	if tag != nil {
		filter = append(filter, bson.E{Key: FieldTags, Value: *tag})
	}
	if unreadOnly {
		filter = append(filter, bson.E{Key: FieldRead, Value: false})
	}
	return filter
}

// setDocument lists the present fields of req, in a fixed order.
func setDocument(req domain.UpdateBookmarkRequest) bson.D {
	set := bson.D{}
	if req.URL != nil {
		set = append(set, bson.E{Key: FieldURL, Value: *req.URL})
	}
	if req.Title != nil {
		set = append(set, bson.E{Key: FieldTitle, Value: *req.Title})
	}
	if req.Tags != nil {
		tags := *req.Tags
		if tags == nil {
			tags = []string{}
		}
		set = append(set, bson.E{Key: FieldTags, Value: tags})
	}
	if req.Read != nil {
		set = append(set, bson.E{Key: FieldRead, Value: *req.Read})
	}
	return set
}

func newestFirst() bson.D {
	return bson.D{{Key: FieldCreatedAt, Value: -1}}
}
