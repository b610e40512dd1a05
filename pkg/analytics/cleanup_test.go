package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
)

func stampedRollup(date time.Time, processedAt time.Time) *DailyRecord {
	rec := dayRecord(date, 1, 0)
	rec.ProcessedAt = processedAt
	return rec
}

func TestCleanupCutoff(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	cutoff := testDay.AddDate(0, 0, -30)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seedRollup(t, store, stampedRollup(base, cutoff.Add(-time.Second)))                 // stale, deleted
	seedRollup(t, store, stampedRollup(base.AddDate(0, 0, 1), cutoff))                  // exactly at cutoff, retained
	seedRollup(t, store, stampedRollup(base.AddDate(0, 0, 2), cutoff.Add(time.Second))) // fresh, retained

	result, err := e.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	if result.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1 (only strictly-older records)", result.Deleted)
	}
	if result.OlderThanDays != 30 {
		t.Errorf("OlderThanDays = %d, want 30", result.OlderThanDays)
	}

	if _, err := store.Get(ctx, Collection, DocumentKey("2024-01-01")); !errors.Is(err, docstore.ErrNotFound) {
		t.Error("stale rollup should be deleted")
	}
	if _, err := store.Get(ctx, Collection, DocumentKey("2024-01-02")); err != nil {
		t.Error("rollup processed exactly at cutoff should be retained")
	}
}

func TestCleanupContinuesOnDeleteFailure(t *testing.T) {
	_, mem := newTestEngine(t)
	ctx := context.Background()

	cutoff := testDay.AddDate(0, 0, -30)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedRollup(t, mem, stampedRollup(base, cutoff.Add(-2*time.Second)))
	seedRollup(t, mem, stampedRollup(base.AddDate(0, 0, 1), cutoff.Add(-time.Second)))

	flaky := &failingStore{Store: mem, failDelete: map[string]bool{DocumentKey("2024-01-01"): true}}
	e := New(flaky, zerolog.Nop())
	e.now = func() time.Time { return testDay }

	result, err := e.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if result.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1 (failed delete skipped, sibling still deleted)", result.Deleted)
	}
}

func TestCleanupQueryFailurePropagates(t *testing.T) {
	_, mem := newTestEngine(t)
	flaky := &failingStore{Store: mem, failQuery: true}
	e := New(flaky, zerolog.Nop())

	if _, err := e.Cleanup(context.Background(), 30); !errors.Is(err, errStore) {
		t.Errorf("error = %v, want wrapped store error", err)
	}
}

func TestHealthCheck(t *testing.T) {
	e, _ := newTestEngine(t)

	status := e.HealthCheck(context.Background())
	if !status.Healthy {
		t.Errorf("HealthCheck unhealthy: %s", status.Error)
	}

	// The check ran a real rollup for yesterday.
	if _, err := e.GetDay(context.Background(), testDay.AddDate(0, 0, -1)); err != nil {
		t.Errorf("yesterday's rollup not persisted by health check: %v", err)
	}
}

func TestHealthCheckReportsFailure(t *testing.T) {
	_, mem := newTestEngine(t)
	flaky := &failingStore{Store: mem, failQuery: true}
	e := New(flaky, zerolog.Nop())

	status := e.HealthCheck(context.Background())
	if status.Healthy {
		t.Error("HealthCheck should report unhealthy when the store fails")
	}
	if status.Error == "" {
		t.Error("HealthCheck should carry the failure message")
	}
}
