// Package docstore provides access to the remote document database.
//
// The feed engine and its collaborators consume the Store interface
// only; the MongoDB implementation lives alongside it and is wired up
// in main.
package docstore

import (
	"context"
	"errors"
)

// Collection names used by the client.
const (
	CollectionNews       = "news"
	CollectionCategories = "categories"
	CollectionChannels   = "channels"
	CollectionUsers      = "users"
	CollectionPartners   = "partners"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Record is an opaque key-value document as returned by the store.
// The id is carried under the "_id" key.
type Record map[string]any

// ID returns the record's document id, or "" if it has none.
func (r Record) ID() string {
	id, _ := r["_id"].(string)
	return id
}

// Store is the queryable collection API the client is built against.
type Store interface {
	// FetchCollection returns every document in the named collection,
	// in no particular order.
	FetchCollection(ctx context.Context, name string) ([]Record, error)

	// FetchDocument returns a single document by id, or ErrNotFound.
	FetchDocument(ctx context.Context, collection, id string) (Record, error)

	// FindByField returns documents where field equals value.
	FindByField(ctx context.Context, collection, field string, value any) ([]Record, error)

	// InsertDocument creates a document with the given id and fields.
	InsertDocument(ctx context.Context, collection, id string, fields map[string]any) error

	// UpdateDocument merges fields into an existing document.
	// Returns ErrNotFound if the document does not exist.
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error
}
