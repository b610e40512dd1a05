package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ticketpulse/ticketpulse/pkg/records"
)

// ProcessDay computes the rollup for the calendar day containing date and
// upserts it into the analytics collection, replacing any prior value for
// that date. Any fetch or persist failure propagates; nothing partial is
// written.
func (e *Engine) ProcessDay(ctx context.Context, date time.Time) (*DailyRecord, error) {
	started := e.now()
	dayStart, dayEnd := DayWindow(date)
	dateKey := DateKey(dayStart)

	// The three fetches are read-only and independent, so issue them
	// concurrently. All must be drained before touching the results.
	var (
		dayTickets []records.Ticket
		dayUsers   []records.User
		allTickets []records.Ticket
	)
	errc := make(chan error, 3)
	go func() {
		var err error
		dayTickets, err = e.source.TicketsBetween(ctx, dayStart, dayEnd)
		errc <- err
	}()
	go func() {
		var err error
		dayUsers, err = e.source.UsersBetween(ctx, dayStart, dayEnd)
		errc <- err
	}()
	go func() {
		var err error
		allTickets, err = e.source.AllTickets(ctx)
		errc <- err
	}()

	var fetchErr error
	for i := 0; i < 3; i++ {
		if err := <-errc; err != nil && fetchErr == nil {
			fetchErr = err
		}
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch records for %s: %w", dateKey, fetchErr)
	}

	rec := &DailyRecord{
		Date:       dateKey,
		Tickets:    calcTicketMetrics(dayTickets),
		Users:      calcUserMetrics(dayUsers, dayTickets),
		Revenue:    calcRevenueMetrics(dayTickets, allTickets, dayEnd),
		Events:     calcEventMetrics(dayTickets),
		Engagement: calcEngagementMetrics(dayTickets, dayUsers),
	}

	sum, err := fingerprint(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint rollup %s: %w", dateKey, err)
	}
	rec.Checksum = sum
	rec.ProcessedAt = e.now()
	rec.ProcessingDurationMs = e.now().Sub(started).Milliseconds()

	if err := e.upsert(ctx, rec); err != nil {
		return nil, err
	}

	e.log.Debug().
		Str("date", dateKey).
		Int("tickets", rec.Tickets.Created).
		Int64("duration_ms", rec.ProcessingDurationMs).
		Msg("daily rollup processed")

	return rec, nil
}

// GetDay reads a persisted rollup. Returns docstore.ErrNotFound when the
// date has never been processed.
func (e *Engine) GetDay(ctx context.Context, date time.Time) (*DailyRecord, error) {
	doc, err := e.store.Get(ctx, Collection, DocumentKey(DateKey(date)))
	if err != nil {
		return nil, err
	}
	var rec DailyRecord
	if err := doc.Unmarshal(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode rollup %s: %w", doc.Key, err)
	}
	return &rec, nil
}

// upsert persists a rollup, logging when a recomputation superseded a rollup
// with different content (raw data changed after the fact).
func (e *Engine) upsert(ctx context.Context, rec *DailyRecord) error {
	key := DocumentKey(rec.Date)

	// Best-effort change detection; a lookup failure here never blocks the
	// upsert below.
	if prev, err := e.store.Get(ctx, Collection, key); err == nil {
		var old DailyRecord
		if err := prev.Unmarshal(&old); err == nil && old.Checksum != rec.Checksum {
			e.log.Info().Str("date", rec.Date).Msg("rollup content changed, superseding prior value")
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode rollup %s: %w", rec.Date, err)
	}
	if err := e.store.Put(ctx, Collection, key, data); err != nil {
		return fmt.Errorf("failed to persist rollup %s: %w", rec.Date, err)
	}
	return nil
}
