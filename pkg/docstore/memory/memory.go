package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
)

// Store keeps documents in memory. Data is lost on restart.
// Useful for testing and development.
type Store struct {
	collections map[string]*collection
	mu          sync.RWMutex
}

// collection preserves insertion order so queries without OrderBy return
// documents in the order they were written.
type collection struct {
	docs  map[string][]byte
	order []string
}

// New creates an in-memory document store
func New() *Store {
	return &Store{
		collections: make(map[string]*collection),
	}
}

// Query returns documents matching the request, in insertion order unless
// OrderBy is set.
func (s *Store) Query(ctx context.Context, col string, req docstore.QueryRequest) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[col]
	if !ok {
		return nil, nil
	}

	var results []docstore.Document
	for _, key := range c.order {
		data := c.docs[key]
		fields, err := docstore.Fields(data)
		if err != nil {
			continue
		}
		if !docstore.Matches(fields, req.Filters) {
			continue
		}
		results = append(results, docstore.Document{Key: key, Data: append(json.RawMessage(nil), data...)})
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

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[col]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	data, ok := c.docs[key]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return &docstore.Document{Key: key, Data: append(json.RawMessage(nil), data...)}, nil
}

// Put creates or replaces the document under the key
func (s *Store) Put(ctx context.Context, col, key string, data json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[col]
	if !ok {
		c = &collection{docs: make(map[string][]byte)}
		s.collections[col] = c
	}
	if _, exists := c.docs[key]; !exists {
		c.order = append(c.order, key)
	}
	c.docs[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes the document under the key
func (s *Store) Delete(ctx context.Context, col, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[col]
	if !ok {
		return nil
	}
	if _, exists := c.docs[key]; !exists {
		return nil
	}
	delete(c.docs, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close is a no-op for memory storage
func (s *Store) Close() error {
	return nil
}
