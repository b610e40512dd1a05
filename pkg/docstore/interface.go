package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get when no document exists under the key.
var ErrNotFound = errors.New("document not found")

// Store defines the document-store contract the analytics engine runs on.
// Implementations: memory (testing), badger (production), mongo (optional)
type Store interface {
	// Query returns documents in a collection matching every filter,
	// optionally ordered and limited.
	Query(ctx context.Context, collection string, req QueryRequest) ([]Document, error)

	// Get fetches a single document by key. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, key string) (*Document, error)

	// Put creates or fully replaces the document under the key.
	Put(ctx context.Context, collection, key string, data json.RawMessage) error

	// Delete removes the document under the key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, collection, key string) error

	// Close cleanly shuts down the store
	Close() error
}

// Document is a keyed JSON document.
type Document struct {
	Key  string
	Data json.RawMessage
}

// Operator is a filter comparison operator.
type Operator string

const (
	OpEq  Operator = "="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="
	OpNe  Operator = "!="
)

// Filter constrains a top-level document field.
type Filter struct {
	Field string
	Op    Operator
	Value interface{}
}

// QueryRequest specifies which documents to retrieve.
type QueryRequest struct {
	// Filters are ANDed together. Empty means match everything.
	Filters []Filter

	// OrderBy names a top-level field to sort on (optional).
	OrderBy string

	// Descending flips the sort order. Ignored without OrderBy.
	Descending bool

	// Limit caps the number of results (0 = no limit).
	Limit int
}

// Unmarshal decodes the document body into v.
func (d *Document) Unmarshal(v interface{}) error {
	return json.Unmarshal(d.Data, v)
}
