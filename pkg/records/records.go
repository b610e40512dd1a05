// Package records defines the raw transactional records the analytics engine
// reads, and typed query helpers over the document store. The engine never
// writes to these collections.
package records

import (
	"context"
	"fmt"
	"time"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
)

// Collection names in the document store.
const (
	TicketCollection = "tickets"
	UserCollection   = "users"
)

// TicketType is the closed set of ticket categories.
type TicketType string

const (
	TicketStandard TicketType = "standard"
	TicketPremium  TicketType = "premium"
	TicketVIP      TicketType = "vip"
)

// Prices maps ticket type to unit price. Unknown types price at 0.
var Prices = map[TicketType]float64{
	TicketStandard: 0,
	TicketPremium:  49,
	TicketVIP:      99,
}

// Price returns the unit price for a ticket type.
func Price(t TicketType) float64 {
	return Prices[t]
}

// Ticket is a raw ticket record.
type Ticket struct {
	ID        string     `json:"id"`
	Type      TicketType `json:"type"`
	CreatedAt time.Time  `json:"createdAt"`
	CheckedIn bool       `json:"checkedIn"`
	Cancelled bool       `json:"cancelled"`
	UserID    string     `json:"userId,omitempty"`
	EventName string     `json:"eventName"`
}

// User is a raw user record.
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Deleted   bool      `json:"deleted"`
}

// Source reads raw records from the document store.
type Source struct {
	store docstore.Store
}

// NewSource wraps a document store with typed raw-record queries.
func NewSource(store docstore.Store) *Source {
	return &Source{store: store}
}

// TicketsBetween returns tickets created within [start, end] inclusive, in
// store order.
func (s *Source) TicketsBetween(ctx context.Context, start, end time.Time) ([]Ticket, error) {
	docs, err := s.store.Query(ctx, TicketCollection, docstore.QueryRequest{
		Filters: []docstore.Filter{
			{Field: "createdAt", Op: docstore.OpGte, Value: start},
			{Field: "createdAt", Op: docstore.OpLte, Value: end},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	return decodeTickets(docs)
}

// AllTickets returns every ticket in the store. Needed for cumulative
// revenue totals.
func (s *Source) AllTickets(ctx context.Context) ([]Ticket, error) {
	docs, err := s.store.Query(ctx, TicketCollection, docstore.QueryRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to query all tickets: %w", err)
	}
	return decodeTickets(docs)
}

// UsersBetween returns users registered within [start, end] inclusive.
func (s *Source) UsersBetween(ctx context.Context, start, end time.Time) ([]User, error) {
	docs, err := s.store.Query(ctx, UserCollection, docstore.QueryRequest{
		Filters: []docstore.Filter{
			{Field: "createdAt", Op: docstore.OpGte, Value: start},
			{Field: "createdAt", Op: docstore.OpLte, Value: end},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	users := make([]User, 0, len(docs))
	for _, d := range docs {
		var u User
		if err := d.Unmarshal(&u); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", d.Key, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func decodeTickets(docs []docstore.Document) ([]Ticket, error) {
	tickets := make([]Ticket, 0, len(docs))
	for _, d := range docs {
		var t Ticket
		if err := d.Unmarshal(&t); err != nil {
			return nil, fmt.Errorf("failed to decode ticket %s: %w", d.Key, err)
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}
