package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
)

// CleanupResult reports a retention pass.
type CleanupResult struct {
	Deleted       int `json:"deleted"`
	OlderThanDays int `json:"olderThanDays"`
}

// Cleanup deletes rollups whose processedAt is strictly before
// now - olderThanDays. A record processed exactly at the cutoff is retained.
// Individual delete failures are logged and do not abort the remaining
// deletions; the top-level query failure does propagate.
func (e *Engine) Cleanup(ctx context.Context, olderThanDays int) (CleanupResult, error) {
	result := CleanupResult{OlderThanDays: olderThanDays}
	cutoff := e.now().AddDate(0, 0, -olderThanDays)

	docs, err := e.store.Query(ctx, Collection, docstore.QueryRequest{
		Filters: []docstore.Filter{
			{Field: "processedAt", Op: docstore.OpLt, Value: cutoff},
		},
	})
	if err != nil {
		return result, fmt.Errorf("failed to query stale rollups: %w", err)
	}

	for _, d := range docs {
		if err := e.store.Delete(ctx, Collection, d.Key); err != nil {
			e.log.Warn().Err(err).Str("key", d.Key).Msg("failed to delete stale rollup")
			continue
		}
		result.Deleted++
	}

	if result.Deleted > 0 {
		e.log.Info().
			Int("deleted", result.Deleted).
			Time("cutoff", cutoff).
			Msg("retention cleanup completed")
	}
	return result, nil
}

// yesterday returns the start of the previous calendar day.
func (e *Engine) yesterday() time.Time {
	return e.now().AddDate(0, 0, -1)
}
