package content

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a fetch-by-id, patch or delete targets a
// document that does not exist.
var ErrNotFound = errors.New("document not found")

// Store is the query/mutation facade over the MongoDB content database.
// Reads go through Fetch with a Query built by the templates in this
// package; mutations go through Create, Delete and the Patch builder.
// The store performs no retries; a failed operation is terminal for the
// caller.
type Store struct {
	db *mongo.Database
}

// NewStore creates a Store over the given content database.
func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Query is a parameterized read. User input is always bound into Filter
// values, never interpolated into query text.
type Query struct {
	Collection string
	Filter     bson.D
	Sort       bson.D
	Projection bson.D
	Limit      int64
}

// Fetch executes a read query and decodes the resulting document
// sequence into out, which must be a pointer to a slice. An empty result
// decodes to an empty slice, not an error.
func (s *Store) Fetch(ctx context.Context, q Query, out any) error {
	findOptions := options.Find()
	if q.Sort != nil {
		findOptions.SetSort(q.Sort)
	}
	if q.Projection != nil {
		findOptions.SetProjection(q.Projection)
	}
	if q.Limit > 0 {
		findOptions.SetLimit(q.Limit)
	}

	filter := q.Filter
	if filter == nil {
		filter = bson.D{}
	}

	cursor, err := s.db.Collection(q.Collection).Find(ctx, filter, findOptions)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", q.Collection, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", q.Collection, err)
	}
	return nil
}

// FetchOne executes a read query expected to match at most one document.
// Returns ErrNotFound when nothing matches.
func (s *Store) FetchOne(ctx context.Context, q Query, out any) error {
	findOptions := options.FindOne()
	if q.Projection != nil {
		findOptions.SetProjection(q.Projection)
	}

	err := s.db.Collection(q.Collection).FindOne(ctx, q.Filter, findOptions).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch one %s: %w", q.Collection, err)
	}
	return nil
}

// Create inserts a new document and returns its assigned id.
func (s *Store) Create(ctx context.Context, collection string, doc any) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("create %s: %w", collection, err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("create %s: unexpected inserted id type %T", collection, res.InsertedID)
	}
	return id, nil
}

// Delete removes a document by id. Returns ErrNotFound if no document
// matched.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid document id %q: %w", id, err)
	}

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
