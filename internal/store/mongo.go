package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goevent/event-booking/internal/model"
)

// maxTransientAttempts bounds the store-level retries for timeouts and broken
// connections.  Version conflicts are never retried here; resolving them
// needs fresh domain state, which only the caller has.
const maxTransientAttempts = 3

// Mongo is the MongoDB-backed Store implementation.  Every document carries a
// "partitionKey" field written by the store and a "version" field used as the
// concurrency token.  The collection is resolved from the entity type's
// Container at construction.
type Mongo[T model.Entity] struct {
	coll *mongo.Collection
}

// NewMongo binds a store for T to its collection in db.
func NewMongo[T model.Entity](db *mongo.Database) *Mongo[T] {
	var zero T
	return &Mongo[T]{coll: db.Collection(zero.Container())}
}

// Get implements Store.
func (s *Mongo[T]) Get(ctx context.Context, id, partitionKey string) (T, error) {
	var out T
	err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.coll.FindOne(ctx, bson.M{"_id": id, "partitionKey": partitionKey}).Decode(&out)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, ErrNotFound
	}
	return out, err
}

// List implements Store.
func (s *Mongo[T]) List(ctx context.Context) ([]T, error) {
	return s.Find(ctx, bson.M{}, "")
}

// Find implements Store.
func (s *Mongo[T]) Find(ctx context.Context, filter bson.M, partitionKey string) ([]T, error) {
	q := bson.M{}
	for k, v := range filter {
		q[k] = v
	}
	if partitionKey != "" {
		q["partitionKey"] = partitionKey
	}
	var out []T
	err := s.withRetry(ctx, func(ctx context.Context) error {
		cur, err := s.coll.Find(ctx, q)
		if err != nil {
			return err
		}
		out = out[:0]
		return cur.All(ctx, &out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Add implements Store.  The new document starts at version 1.
func (s *Mongo[T]) Add(ctx context.Context, entity T) (T, error) {
	doc, err := toDoc(entity, 1)
	if err != nil {
		var zero T
		return zero, err
	}
	err = s.withRetry(ctx, func(ctx context.Context) error {
		_, err := s.coll.InsertOne(ctx, doc)
		return err
	})
	if mongo.IsDuplicateKeyError(err) {
		var zero T
		return zero, ErrConflict
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return fromDoc[T](doc)
}

// Update implements Store.  The replace matches on the version the caller
// read; zero matched documents means either the target is gone or someone
// else won the race, and the two are told apart with a point lookup.
func (s *Mongo[T]) Update(ctx context.Context, entity T, partitionKey string) (T, error) {
	var zero T
	doc, err := toDoc(entity, entity.DocVersion()+1)
	if err != nil {
		return zero, err
	}
	filter := bson.M{
		"_id":          entity.DocID(),
		"partitionKey": partitionKey,
		"version":      entity.DocVersion(),
	}
	var matched int64
	err = s.withRetry(ctx, func(ctx context.Context) error {
		res, err := s.coll.ReplaceOne(ctx, filter, doc)
		if err != nil {
			return err
		}
		matched = res.MatchedCount
		return nil
	})
	if err != nil {
		return zero, err
	}
	if matched == 0 {
		n, err := s.coll.CountDocuments(ctx, bson.M{"_id": entity.DocID(), "partitionKey": partitionKey})
		if err == nil && n == 0 {
			return zero, ErrNotFound
		}
		return zero, ErrConflict
	}
	return fromDoc[T](doc)
}

// Upsert implements Store.  The version still advances on replace so readers
// holding the old document cannot conditionally write over the new one.
func (s *Mongo[T]) Upsert(ctx context.Context, entity T) (T, error) {
	var zero T
	doc, err := toDoc(entity, 0)
	if err != nil {
		return zero, err
	}
	delete(doc, "_id")
	delete(doc, "version")
	var out T
	err = s.withRetry(ctx, func(ctx context.Context) error {
		res := s.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": entity.DocID(), "partitionKey": entity.PartitionKey()},
			bson.M{"$set": doc, "$inc": bson.M{"version": 1}},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		)
		return res.Decode(&out)
	})
	if err != nil {
		return zero, err
	}
	return out, nil
}

// Delete implements Store.
func (s *Mongo[T]) Delete(ctx context.Context, id, partitionKey string) (bool, error) {
	var deleted int64
	err := s.withRetry(ctx, func(ctx context.Context) error {
		res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "partitionKey": partitionKey})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

// withRetry runs op, retrying transient driver failures with exponential
// backoff before giving up with ErrUnavailable.
func (s *Mongo[T]) withRetry(ctx context.Context, op func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < maxTransientAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(1<<attempt) * 50 * time.Millisecond):
			}
		}
		err = op(ctx)
		if err == nil || !isTransient(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func isTransient(err error) bool {
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}

// toDoc flattens an entity into a bson document, stamping the partition key
// and the given version.
func toDoc[T model.Entity](entity T, version int64) (bson.M, error) {
	raw, err := bson.Marshal(entity)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	doc["partitionKey"] = entity.PartitionKey()
	doc["version"] = version
	return doc, nil
}

// fromDoc decodes a bson document back into the entity type.
func fromDoc[T model.Entity](doc bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(doc)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}
