package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
)

// Range assembles the rollups for every calendar date in [start, end]
// inclusive, ascending. Dates with no persisted rollup are computed on the
// spot (lazy backfill), which also persists them for the next caller.
//
// A single date's failure is logged and that date is skipped, so the result
// may be shorter than the requested span. Callers must not assume one entry
// per day.
func (e *Engine) Range(ctx context.Context, start, end time.Time) ([]*DailyRecord, error) {
	dayStart, _ := DayWindow(start)
	lastStart, _ := DayWindow(end)
	if lastStart.Before(dayStart) {
		return nil, fmt.Errorf("invalid range: end %s before start %s", DateKey(lastStart), DateKey(dayStart))
	}

	var rng []*DailyRecord
	for d := dayStart; !d.After(lastStart); d = d.AddDate(0, 0, 1) {
		rec, err := e.GetDay(ctx, d)
		if errors.Is(err, docstore.ErrNotFound) {
			rec, err = e.ProcessDay(ctx, d)
		}
		if err != nil {
			e.log.Warn().Err(err).Str("date", DateKey(d)).Msg("skipping date in range")
			continue
		}
		rng = append(rng, rec)
	}

	// Construction order is already ascending; keep the sort as a guarantee
	// the downstream lookback math depends on.
	sort.Slice(rng, func(i, j int) bool { return rng[i].Date < rng[j].Date })

	return rng, nil
}
