package store

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/tetherhq/tether-read/log"
	"github.com/tetherhq/tether-read/model"
)

// CreatePlaceholder inserts a record before its file reaches object
// storage. The record carries the placeholder key until FinalizeUpload.
func (s *Store) CreatePlaceholder(ctx context.Context, book *model.Book) (*model.Book, error) {
	now := time.Now().UTC()
	book.ID = primitive.NewObjectID()
	book.ObjectKey = model.PlaceholderObjectKey
	book.CFI = ""
	book.Percentage = 0
	book.CreatedAt = now
	book.UpdatedAt = now

	if _, err := s.db.Books().InsertOne(ctx, book); err != nil {
		return nil, errors.Wrap(err, "failed to insert book record")
	}
	return book, nil
}

// FinalizeUpload stamps the record with its object-storage key once the
// upload completed.
func (s *Store) FinalizeUpload(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	res, err := s.db.Books().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"objectKey": objectKey, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return errors.Wrap(err, "failed to finalize upload")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetBook returns a single record matching the filter, or nil when absent.
func (s *Store) GetBook(ctx context.Context, find *model.FindBook) (*model.Book, error) {
	filter := bson.M{}
	if find.ID != nil {
		filter["_id"] = *find.ID
	}
	if find.OwnerID != nil {
		filter["ownerId"] = *find.OwnerID
	}

	var book model.Book
	err := s.db.Books().FindOne(ctx, filter).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get book")
	}
	return &book, nil
}

// ListBooks returns one page of the owner's records plus pagination
// metadata, subject to search, sort and status filtering.
//
// The status filter runs over the already-fetched page, so Total and
// TotalPages reflect the owner+search predicate only. That mismatch is the
// documented behavior of this endpoint, kept as-is.
func (s *Store) ListBooks(ctx context.Context, req *model.ListBooksRequest) (*model.BookPage, error) {
	filter := buildListFilter(req)

	total, err := s.db.Books().CountDocuments(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count books")
	}

	cursor, err := s.db.Books().Find(ctx, filter, buildFindOptions(req))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query books")
	}
	defer cursor.Close(ctx)

	books := []*model.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, errors.Wrap(err, "failed to decode books")
	}

	if req.Status != model.StatusAll {
		books = filterByStatus(books, req.Status)
	}

	log.Debug("Listed books",
		zap.String("owner_id", req.OwnerID),
		zap.Int("page", req.Page),
		zap.Int64("total", total),
		zap.Int("returned", len(books)),
	)

	return &model.BookPage{
		Info:  model.NewPageMeta(req, total),
		Count: len(books),
		Books: books,
	}, nil
}

// UpdateBookMeta edits title/author of an owned record and returns the
// updated record. ErrNotFound covers missing and not-owned alike.
func (s *Store) UpdateBookMeta(ctx context.Context, ownerID string, id primitive.ObjectID, title, author *string) (*model.Book, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if title != nil {
		set["title"] = *title
	}
	if author != nil {
		set["author"] = *author
	}

	var book model.Book
	err := s.db.Books().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "ownerId": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update book")
	}
	return &book, nil
}

// UpdateProgress persists the reading position for an owned record.
// Last write wins; there is no versioning on progress.
func (s *Store) UpdateProgress(ctx context.Context, ownerID string, id primitive.ObjectID, cfi string, percentage float64) error {
	percentage = clampPercentage(percentage)

	res, err := s.db.Books().UpdateOne(ctx,
		bson.M{"_id": id, "ownerId": ownerID},
		bson.M{"$set": bson.M{
			"cfi":        cfi,
			"percentage": percentage,
			"updatedAt":  time.Now().UTC(),
		}},
	)
	if err != nil {
		return errors.Wrap(err, "failed to save progress")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveBook deletes an owned record. The object-storage entry is left
// behind; cleanup is an operational concern outside this server.
func (s *Store) RemoveBook(ctx context.Context, ownerID string, id primitive.ObjectID) error {
	res, err := s.db.Books().DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return errors.Wrap(err, "failed to delete book")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	log.Info("Deleted book", zap.String("book_id", id.Hex()), zap.String("owner_id", ownerID))
	return nil
}

// buildListFilter restricts to the owner's records and, for a non-empty
// search, adds a case-insensitive literal substring match on title or
// author. The search term is quoted so regex metacharacters are inert.
func buildListFilter(req *model.ListBooksRequest) bson.M {
	filter := bson.M{"ownerId": req.OwnerID}
	if req.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(req.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"author": pattern},
		}
	}
	return filter
}

// buildFindOptions resolves sort, windowing and collation. The _id
// tie-break keeps equal sort keys in a consistent order across pages.
func buildFindOptions(req *model.ListBooksRequest) *options.FindOptions {
	dir := -1
	if req.Order == "asc" {
		dir = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: req.SortBy, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.Limit))

	// Strength 2 compares case-insensitively but keeps accents distinct,
	// so "apple" sorts adjacent to "Apple".
	if req.TextSort() {
		opts.SetCollation(&options.Collation{Locale: "en", Strength: 2})
	}
	return opts
}

func filterByStatus(books []*model.Book, status model.ReadingStatus) []*model.Book {
	filtered := make([]*model.Book, 0, len(books))
	for _, b := range books {
		if b.Status() == status {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

func clampPercentage(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
