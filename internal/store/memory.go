package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/goevent/event-booking/internal/model"
)

// Memory is an in-process Store implementation with the same version-token
// semantics as the Mongo store.  It backs the test suites and lets the
// service run without a database in local setups.  Safe for concurrent use.
type Memory[T model.Entity] struct {
	mu   sync.Mutex
	docs map[string]bson.M
}

// NewMemory returns an empty in-memory store for T.
func NewMemory[T model.Entity]() *Memory[T] {
	return &Memory[T]{docs: make(map[string]bson.M)}
}

func memKey(id, partitionKey string) string { return partitionKey + "\x00" + id }

// Get implements Store.
func (s *Memory[T]) Get(ctx context.Context, id, partitionKey string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[memKey(id, partitionKey)]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return fromDoc[T](doc)
}

// List implements Store.
func (s *Memory[T]) List(ctx context.Context) ([]T, error) {
	return s.Find(ctx, bson.M{}, "")
}

// Find implements Store.  Filters are matched as field equality against the
// stored document, mirroring how the service layer queries Mongo.
func (s *Memory[T]) Find(ctx context.Context, filter bson.M, partitionKey string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0)
	for _, doc := range s.docs {
		if partitionKey != "" && doc["partitionKey"] != partitionKey {
			continue
		}
		if !matchDoc(doc, filter) {
			continue
		}
		e, err := fromDoc[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Add implements Store.
func (s *Memory[T]) Add(ctx context.Context, entity T) (T, error) {
	var zero T
	doc, err := toDoc(entity, 1)
	if err != nil {
		return zero, err
	}
	key := memKey(entity.DocID(), entity.PartitionKey())
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[key]; exists {
		return zero, ErrConflict
	}
	s.docs[key] = doc
	return fromDoc[T](doc)
}

// Update implements Store.  The stored version must equal the version the
// caller read or the write is rejected with ErrConflict.
func (s *Memory[T]) Update(ctx context.Context, entity T, partitionKey string) (T, error) {
	var zero T
	doc, err := toDoc(entity, entity.DocVersion()+1)
	if err != nil {
		return zero, err
	}
	key := memKey(entity.DocID(), partitionKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	current, exists := s.docs[key]
	if !exists {
		return zero, ErrNotFound
	}
	if asInt64(current["version"]) != entity.DocVersion() {
		return zero, ErrConflict
	}
	s.docs[key] = doc
	return fromDoc[T](doc)
}

// Upsert implements Store.
func (s *Memory[T]) Upsert(ctx context.Context, entity T) (T, error) {
	var zero T
	key := memKey(entity.DocID(), entity.PartitionKey())
	s.mu.Lock()
	defer s.mu.Unlock()
	version := int64(1)
	if current, exists := s.docs[key]; exists {
		version = asInt64(current["version"]) + 1
	}
	doc, err := toDoc(entity, version)
	if err != nil {
		return zero, err
	}
	s.docs[key] = doc
	return fromDoc[T](doc)
}

// Delete implements Store.
func (s *Memory[T]) Delete(ctx context.Context, id, partitionKey string) (bool, error) {
	key := memKey(id, partitionKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[key]; !exists {
		return false, nil
	}
	delete(s.docs, key)
	return true, nil
}

// matchDoc reports whether every filter field equals the stored value.
func matchDoc(doc, filter bson.M) bool {
	for k, want := range filter {
		if !looseEqual(doc[k], want) {
			return false
		}
	}
	return true
}

// looseEqual compares a stored bson value with a caller-supplied filter
// value, normalizing the integer widths bson round-trips introduce.
func looseEqual(a, b any) bool {
	if ai, ok := toInt64(a); ok {
		if bi, ok := toInt64(b); ok {
			return ai == bi
		}
		return false
	}
	return a == b
}

func asInt64(v any) int64 {
	n, _ := toInt64(v)
	return n
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
