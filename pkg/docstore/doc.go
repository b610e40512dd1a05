/*
Package docstore provides the pluggable document-store abstraction the
analytics engine runs on.

# Store Interface

TicketPulse uses an interface-based design to support multiple backends:
  - memory: In-memory storage for testing and ephemeral workloads
  - badger: BadgerDB (LSM tree + Snappy compression) for persistent storage
  - mongo: MongoDB for deployments that already run one

All backends implement the Store interface:

	type Store interface {
	    Query(ctx context.Context, collection string, req QueryRequest) ([]Document, error)
	    Get(ctx context.Context, collection, key string) (*Document, error)
	    Put(ctx context.Context, collection, key string, data json.RawMessage) error
	    Delete(ctx context.Context, collection, key string) error
	    Close() error
	}

Documents are opaque JSON bodies addressed by (collection, key). Put has full
upsert semantics: it creates or totally replaces the stored value, which is
what makes daily rollup recomputation safe under concurrent writers.

# Collections

  - tickets:   raw ticket records (read-only to the engine)
  - users:     raw user records (read-only to the engine)
  - analytics: daily rollups, keyed "daily_" + YYYY-MM-DD

# Filtering

Query filters are ANDed (field, operator, value) triples over top-level
document fields, with operators =, <, <=, >, >=, !=. Timestamp fields
serialize as RFC3339 and are compared as instants when the filter value is a
time.Time. Backends share the matching code in this package; none of the
collections here are large enough to justify per-backend index plumbing.

# Usage Example

	import "github.com/ticketpulse/ticketpulse/pkg/docstore/badger"

	store, err := badger.New(badger.Config{Path: "./data"})
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()
*/
package docstore
