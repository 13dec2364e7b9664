package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document id does not exist in the collection.
var ErrNotFound = errors.New("document not found")

// Document is a schemaless record in a named collection. CreatedAt is assigned
// by the store on insert and never changes afterwards.
type Document struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
}

// Client is the boundary with the document store. The todo core only ever needs
// whole-collection reads ordered by creation time and document-level writes.
type Client interface {
	// ListAll returns every document of the collection ordered by creation
	// time, newest first when desc is set.
	ListAll(ctx context.Context, collection string, desc bool) ([]Document, error)
	// Insert stores a new document and returns its generated id.
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
	// Update merges the given fields into an existing document. A nil field
	// value overwrites the stored value with null.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Remove deletes a document. Removing a missing id is not an error.
	Remove(ctx context.Context, collection, id string) error
}
