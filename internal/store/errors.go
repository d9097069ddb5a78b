// Package store implements the partition-aware document store client used by
// the service layer.  Documents are addressed by (id, partition key) and every
// replace is conditional on a version token, so concurrent writers cannot
// silently overwrite each other.
package store

import "errors"

// ErrNotFound is returned when no document matches (id, partition key).
var ErrNotFound = errors.New("store: document not found")

// ErrConflict is returned when Add hits an existing (id, partition key) or
// when Update finds the document modified since it was read.  Callers that
// want to retry should re-read and reapply their change.
var ErrConflict = errors.New("store: version conflict")

// ErrUnavailable is returned after transient backend failures (timeouts,
// broken connections) survive the store's internal retries.
var ErrUnavailable = errors.New("store: backend unavailable")
