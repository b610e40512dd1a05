package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
	"github.com/ticketpulse/ticketpulse/pkg/docstore/memory"
	"github.com/ticketpulse/ticketpulse/pkg/records"
)

// testDay is the fixed "today" all engine tests run against.
var testDay = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *memory.Store) {
	t.Helper()
	store := memory.New()
	e := New(store, zerolog.Nop())
	e.now = func() time.Time { return testDay }
	return e, store
}

func seedTicket(t *testing.T, store docstore.Store, tk records.Ticket) {
	t.Helper()
	data, err := json.Marshal(tk)
	if err != nil {
		t.Fatalf("marshal ticket: %v", err)
	}
	if err := store.Put(context.Background(), records.TicketCollection, tk.ID, data); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
}

func seedUser(t *testing.T, store docstore.Store, u records.User) {
	t.Helper()
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	if err := store.Put(context.Background(), records.UserCollection, u.ID, data); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

// dayRecord builds a minimal persisted rollup for range/growth tests.
func dayRecord(date time.Time, ticketsCreated int, revenue float64) *DailyRecord {
	return &DailyRecord{
		Date:        DateKey(date),
		Tickets:     TicketMetrics{Created: ticketsCreated},
		Revenue:     RevenueMetrics{DailyTotal: revenue},
		ProcessedAt: date,
	}
}

func seedRollup(t *testing.T, store docstore.Store, rec *DailyRecord) {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal rollup: %v", err)
	}
	if err := store.Put(context.Background(), Collection, DocumentKey(rec.Date), data); err != nil {
		t.Fatalf("seed rollup: %v", err)
	}
}

// maxTime is a window end after every fixture timestamp.
func maxTime([]records.Ticket) time.Time {
	return time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
}
