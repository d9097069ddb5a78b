// Package model defines the entities persisted in the document store and the
// capability contract they share.
package model

// Entity is implemented by every type the document store can persist.  The
// store uses DocID and PartitionKey to address a document, Container to pick
// the collection it lives in, and DocVersion as the optimistic concurrency
// token for conditional replaces.  Implementations use value receivers so a
// zero value of the concrete type is enough to resolve the container at
// composition time.
type Entity interface {
	DocID() string
	PartitionKey() string
	Container() string
	DocVersion() int64
}
