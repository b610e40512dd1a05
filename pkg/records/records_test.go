package records

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ticketpulse/ticketpulse/pkg/docstore/memory"
)

func put(t *testing.T, store *memory.Store, collection, key string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := store.Put(context.Background(), collection, key, data); err != nil {
		t.Fatalf("put: %v", err)
	}
}

func TestTicketsBetween(t *testing.T) {
	store := memory.New()
	src := NewSource(store)
	base := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	put(t, store, TicketCollection, "before", Ticket{ID: "before", Type: TicketStandard, CreatedAt: base.Add(-time.Hour)})
	put(t, store, TicketCollection, "start", Ticket{ID: "start", Type: TicketPremium, CreatedAt: base})
	put(t, store, TicketCollection, "end", Ticket{ID: "end", Type: TicketVIP, CreatedAt: base.Add(24 * time.Hour)})
	put(t, store, TicketCollection, "after", Ticket{ID: "after", Type: TicketStandard, CreatedAt: base.Add(25 * time.Hour)})

	tickets, err := src.TicketsBetween(context.Background(), base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("TicketsBetween: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("len(tickets) = %d, want 2", len(tickets))
	}
	for _, tk := range tickets {
		if tk.ID == "before" || tk.ID == "after" {
			t.Errorf("ticket %q should be outside the window", tk.ID)
		}
	}
}

func TestAllTickets(t *testing.T) {
	store := memory.New()
	src := NewSource(store)
	base := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		put(t, store, TicketCollection, id, Ticket{ID: id, Type: TicketStandard, CreatedAt: base.AddDate(0, 0, i)})
	}

	tickets, err := src.AllTickets(context.Background())
	if err != nil {
		t.Fatalf("AllTickets: %v", err)
	}
	if len(tickets) != 3 {
		t.Fatalf("len(tickets) = %d, want 3", len(tickets))
	}
}

func TestUsersBetween(t *testing.T) {
	store := memory.New()
	src := NewSource(store)
	base := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	put(t, store, UserCollection, "in", User{ID: "in", CreatedAt: base.Add(time.Hour)})
	put(t, store, UserCollection, "out", User{ID: "out", CreatedAt: base.AddDate(0, 0, 2)})

	users, err := src.UsersBetween(context.Background(), base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("UsersBetween: %v", err)
	}
	if len(users) != 1 || users[0].ID != "in" {
		t.Fatalf("users = %+v, want single user %q", users, "in")
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		typ  TicketType
		want float64
	}{
		{TicketStandard, 0},
		{TicketPremium, 49},
		{TicketVIP, 99},
		{TicketType("unknown"), 0},
	}
	for _, tt := range tests {
		if got := Price(tt.typ); got != tt.want {
			t.Errorf("Price(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
