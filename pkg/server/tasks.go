package server

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ticketpulse/ticketpulse/pkg/analytics"
	"github.com/ticketpulse/ticketpulse/pkg/config"
	"github.com/ticketpulse/ticketpulse/pkg/docstore"
	"github.com/ticketpulse/ticketpulse/pkg/docstore/badger"
	"github.com/ticketpulse/ticketpulse/pkg/live"
	"github.com/ticketpulse/ticketpulse/pkg/server/monitor"
)

// RunCleanup runs the retention job periodically, deleting rollups older
// than the retention window. Failures retry with exponential backoff before
// giving up until the next scheduled run.
func RunCleanup(engine *analytics.Engine, retention *monitor.RetentionMonitor, retentionDays int, logger zerolog.Logger, stop chan bool, wg *sync.WaitGroup) {
	defer wg.Done()

	log := logger.With().Str("component", "retention").Logger()

	ticker := time.NewTicker(config.CleanupInterval)
	defer ticker.Stop()

	runWithRetry := func(ctx context.Context) {
		maxRetries := 3
		baseDelay := 30 * time.Second

		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				delay := baseDelay * time.Duration(1<<(attempt-1))
				log.Info().Dur("delay", delay).Int("attempt", attempt+1).Msg("retrying cleanup")
				select {
				case <-time.After(delay):
				case <-stop:
					return
				}
			}

			start := time.Now()
			result, err := engine.Cleanup(ctx, retentionDays)

			if err == nil {
				retention.RecordSuccess()
				log.Info().
					Int("deleted", result.Deleted).
					Dur("took", time.Since(start).Round(time.Millisecond)).
					Msg("cleanup completed")
				return
			}

			retention.RecordFailure(err)
			log.Error().Err(err).Int("attempt", attempt+1).Msg("cleanup failed")

			status := retention.Status()
			if status.ConsecutiveErrors > 3 {
				log.Error().Int("consecutive_errors", status.ConsecutiveErrors).
					Msg("retention cleanup has been failing repeatedly")
			}
		}

		log.Error().Int("attempts", maxRetries+1).Msg("cleanup failed, will retry on next schedule")
	}

	// Run once on startup (non-blocking)
	go func() {
		log.Info().Int("retention_days", retentionDays).Msg("running initial cleanup")
		runWithRetry(context.Background())
	}()

	for {
		select {
		case <-ticker.C:
			runWithRetry(context.Background())
		case <-stop:
			log.Info().Msg("stopping cleanup scheduler")
			return
		}
	}
}

// RunRefresh periodically recomputes today's rollup so dashboards see fresh
// numbers, and broadcasts the result to connected WebSocket clients.
func RunRefresh(ctx context.Context, engine *analytics.Engine, hub *live.Hub, logger zerolog.Logger) {
	log := logger.With().Str("component", "refresh").Logger()

	ticker := time.NewTicker(config.RefreshInterval)
	defer ticker.Stop()

	var consecutiveErrors int
	var lastErrorTime time.Time
	const maxBackoff = 1 * time.Hour

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refreshCtx, cancel := context.WithTimeout(ctx, config.RefreshTimeout)
			record, err := engine.ProcessDay(refreshCtx, time.Now())
			cancel()

			if err != nil {
				consecutiveErrors++
				now := time.Now()

				// Exponential backoff on the log line, not the work, so a
				// persistent outage does not spam the log every 15 minutes.
				backoff := time.Duration(1<<uint(min(consecutiveErrors-1, 8))) * time.Minute
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				if lastErrorTime.IsZero() || now.Sub(lastErrorTime) >= backoff {
					log.Error().Err(err).Int("errors", consecutiveErrors).Msg("refresh failed")
					lastErrorTime = now
				}
				continue
			}

			if consecutiveErrors > 0 {
				log.Info().Int("errors", consecutiveErrors).Msg("refresh recovered")
				consecutiveErrors = 0
			}

			if !hub.HasClients() {
				continue
			}

			update := map[string]interface{}{
				"type":      "rollup_update",
				"timestamp": time.Now().Unix(),
				"rollup":    record,
			}
			if err := hub.Broadcast(update); err != nil {
				log.Warn().Err(err).Msg("failed to broadcast rollup")
			}
		}
	}
}

// RunBadgerGC runs BadgerDB garbage collection periodically to reclaim disk
// space. Only applies when the store is badger-backed.
func RunBadgerGC(store docstore.Store, logger zerolog.Logger, stop chan bool, wg *sync.WaitGroup) {
	defer wg.Done()

	log := logger.With().Str("component", "badger-gc").Logger()

	badgerStore, ok := store.(*badger.Store)
	if !ok {
		log.Debug().Msg("storage is not badger, skipping GC scheduler")
		return
	}

	ticker := time.NewTicker(config.BadgerGCInterval)
	defer ticker.Stop()

	log.Info().Dur("interval", config.BadgerGCInterval).Msg("badger GC scheduler started")

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			// One iteration per tick, 0.5 discard ratio. An error here just
			// means no value-log file was worth rewriting.
			if err := badgerStore.RunGC(0.5); err != nil {
				log.Debug().Dur("took", time.Since(start).Round(time.Millisecond)).Msg("GC completed, no rewrite needed")
			} else {
				log.Info().Dur("took", time.Since(start).Round(time.Millisecond)).Msg("GC completed, disk space reclaimed")
			}
		case <-stop:
			log.Info().Msg("stopping badger GC scheduler")
			return
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
