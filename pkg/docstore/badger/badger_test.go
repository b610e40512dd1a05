package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{InMemory: true})
	if err != nil {
		t.Fatalf("failed to create badger store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func doc(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestBadgerStore_PutGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	body := doc(t, map[string]interface{}{"date": "2024-03-14", "count": 7})
	if err := store.Put(ctx, "analytics", "daily_2024-03-14", body); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "analytics", "daily_2024-03-14")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	fields, err := docstore.Fields(got.Data)
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}
	if fields["date"] != "2024-03-14" {
		t.Errorf("date = %v, want 2024-03-14", fields["date"])
	}

	if err := store.Delete(ctx, "analytics", "daily_2024-03-14"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "analytics", "daily_2024-03-14"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestBadgerStore_QueryWithFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("t%d", i)
		body := doc(t, map[string]interface{}{
			"createdAt": base.Add(time.Duration(i) * time.Hour),
			"count":     i,
		})
		if err := store.Put(ctx, "tickets", key, body); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	results, err := store.Query(ctx, "tickets", docstore.QueryRequest{
		Filters: []docstore.Filter{
			{Field: "createdAt", Op: docstore.OpGte, Value: base.Add(2 * time.Hour)},
			{Field: "createdAt", Op: docstore.OpLt, Value: base.Add(6 * time.Hour)},
		},
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 4 {
		t.Errorf("got %d documents, want 4", len(results))
	}
}

func TestBadgerStore_CollectionPrefixIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "tickets", "x", doc(t, map[string]interface{}{"v": 1}))
	store.Put(ctx, "users", "x", doc(t, map[string]interface{}{"v": 2}))
	// A collection whose name shares a prefix must not leak into the scan.
	store.Put(ctx, "tickets_archive", "y", doc(t, map[string]interface{}{"v": 3}))

	results, err := store.Query(ctx, "tickets", docstore.QueryRequest{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("tickets has %d documents, want 1", len(results))
	}
	if results[0].Key != "x" {
		t.Errorf("Key = %s, want x", results[0].Key)
	}
}

func TestBadgerStore_QueryOrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "analytics", "daily_2024-01-03", doc(t, map[string]interface{}{"date": "2024-01-03"}))
	store.Put(ctx, "analytics", "daily_2024-01-01", doc(t, map[string]interface{}{"date": "2024-01-01"}))
	store.Put(ctx, "analytics", "daily_2024-01-02", doc(t, map[string]interface{}{"date": "2024-01-02"}))

	results, err := store.Query(ctx, "analytics", docstore.QueryRequest{
		OrderBy: "date", Descending: true, Limit: 2,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d documents, want 2", len(results))
	}
	if results[0].Key != "daily_2024-01-03" || results[1].Key != "daily_2024-01-02" {
		t.Errorf("descending order wrong: %s, %s", results[0].Key, results[1].Key)
	}
}

func TestBadgerStore_PutReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "analytics", "k", doc(t, map[string]interface{}{"v": 1}))
	store.Put(ctx, "analytics", "k", doc(t, map[string]interface{}{"v": 2}))

	got, err := store.Get(ctx, "analytics", "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	fields, _ := docstore.Fields(got.Data)
	if fields["v"] != float64(2) {
		t.Errorf("v = %v, want 2 (full replacement)", fields["v"])
	}
}
