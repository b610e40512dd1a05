package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
)

// Store implements docstore.Store using BadgerDB (LSM tree)
type Store struct {
	db *badger.DB
}

// Config holds BadgerDB configuration
type Config struct {
	// Path to store database files
	Path string

	// InMemory mode (for testing)
	InMemory bool

	// MaxMemoryMB limits BadgerDB memory usage in MB (0 = laptop-friendly defaults)
	MaxMemoryMB int64
}

// New creates a BadgerDB document store
func New(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)

	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}

	// Conservative memory limits: BadgerDB defaults assume far bigger
	// datasets than a per-day rollup store ever holds.
	memTableSize := int64(16 * 1024 * 1024)
	if cfg.MaxMemoryMB > 0 {
		memTableSize = cfg.MaxMemoryMB * 1024 * 1024 / 3
	}

	opts = opts.
		WithCompression(options.Snappy).
		WithNumVersionsToKeep(1).
		WithMemTableSize(memTableSize).
		WithNumMemtables(3).
		WithBlockCacheSize(memTableSize / 2).
		WithIndexCacheSize(memTableSize / 4).
		WithMaxLevels(4).
		WithNumLevelZeroTables(2).
		WithNumLevelZeroTablesStall(4).
		WithValueThreshold(1024).
		WithNumCompactors(2).
		WithValueLogFileSize(64 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &Store{db: db}, nil
}

// Query scans a collection prefix and returns matching documents in key order.
func (s *Store) Query(ctx context.Context, col string, req docstore.QueryRequest) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []docstore.Document
	prefix := collectionPrefix(col)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = 100

		it := txn.NewIterator(opts)
		defer it.Close()

		var iterCount int
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			iterCount++
			// Check for cancellation periodically so long scans cannot
			// block shutdown.
			if iterCount%1000 == 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}

			item := it.Item()
			key := strings.TrimPrefix(string(item.Key()), string(prefix))

			err := item.Value(func(val []byte) error {
				fields, err := docstore.Fields(val)
				if err != nil {
					return fmt.Errorf("failed to decode document %s/%s: %w", col, key, err)
				}
				if !docstore.Matches(fields, req.Filters) {
					return nil
				}
				results = append(results, docstore.Document{
					Key:  key,
					Data: append(json.RawMessage(nil), val...),
				})
				return nil
			})
			if err != nil {
				return err
			}

			// Early exit only when no sort is requested; otherwise the
			// limit applies after ordering.
			if req.OrderBy == "" && req.Limit > 0 && len(results) >= req.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	docstore.Order(results, req.OrderBy, req.Descending)

	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return results, nil
}

// Get fetches a document by key
func (s *Store) Get(ctx context.Context, col, key string) (*docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeKey(col, key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s/%s: %w", col, key, err)
	}
	return &docstore.Document{Key: key, Data: data}, nil
}

// Put creates or replaces the document under the key
func (s *Store) Put(ctx context.Context, col, key string, data json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeKey(col, key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write document %s/%s: %w", col, key, err)
	}
	return nil
}

// Delete removes the document under the key
func (s *Store) Delete(ctx context.Context, col, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(makeKey(col, key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", col, key, err)
	}
	return nil
}

// Close shuts down BadgerDB cleanly
func (s *Store) Close() error {
	return s.db.Close()
}

// RunGC runs BadgerDB's value log garbage collection to reclaim disk space
// from deleted rollups. Returns badger.ErrNoRewrite when GC was not needed.
func (s *Store) RunGC(discardRatio float64) error {
	return s.db.RunValueLogGC(discardRatio)
}

// makeKey namespaces a document key under its collection.
// Format: <collection>/<key>
func makeKey(col, key string) []byte {
	return []byte(col + "/" + key)
}

func collectionPrefix(col string) []byte {
	return []byte(col + "/")
}
