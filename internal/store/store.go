package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/goevent/event-booking/internal/model"
)

// Store is the typed CRUD surface over one container.  A Store is bound to a
// single entity type and therefore a single collection; instances are created
// per type at composition time.
//
// All operations are idempotent except Add.  Update is conditional: it only
// replaces the document when the stored version still matches the version the
// caller read, otherwise it fails with ErrConflict.  This is the only
// correctness mechanism the booking workflow relies on under concurrent
// capacity changes, so implementations must not weaken it.
type Store[T model.Entity] interface {
	// Get returns the document with the given id inside the given partition,
	// or ErrNotFound.
	Get(ctx context.Context, id, partitionKey string) (T, error)

	// List returns every document in the container.  Order is unspecified.
	List(ctx context.Context) ([]T, error)

	// Find returns the documents matching filter.  A non-empty partitionKey
	// scopes the query to one partition; an empty one fans out across the
	// container.
	Find(ctx context.Context, filter bson.M, partitionKey string) ([]T, error)

	// Add inserts a new document and returns it with its initial version.
	// It fails with ErrConflict when (id, partition key) already exists.
	Add(ctx context.Context, entity T) (T, error)

	// Update replaces the document conditionally on entity's version and
	// returns the stored result with the bumped version.  It fails with
	// ErrNotFound when the target is absent and ErrConflict when the stored
	// version moved on since the caller's read.
	Update(ctx context.Context, entity T, partitionKey string) (T, error)

	// Upsert creates or fully replaces the document unconditionally.
	Upsert(ctx context.Context, entity T) (T, error)

	// Delete removes the document, reporting true when a document was
	// removed and false when it was already absent.  Absence is not an
	// error.
	Delete(ctx context.Context, id, partitionKey string) (bool, error)
}
