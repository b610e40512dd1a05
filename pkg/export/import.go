package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ticketpulse/ticketpulse/pkg/analytics"
	"github.com/ticketpulse/ticketpulse/pkg/docstore"
)

// Importer restores rollups from a JSON export.
type Importer struct {
	store docstore.Store
}

// NewImporter creates a new importer
func NewImporter(store docstore.Store) *Importer {
	return &Importer{store: store}
}

// ImportResult contains stats about the import
type ImportResult struct {
	DaysImported int       `json:"days_imported"`
	DaysSkipped  int       `json:"days_skipped"`
	ImportedAt   time.Time `json:"imported_at"`
}

// ImportJSON reads a JSON export and upserts every rollup it contains.
// Rollups without a date are skipped; the upsert makes re-importing the
// same file harmless.
func (i *Importer) ImportJSON(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var in envelope
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode import: %w", err)
	}

	result := &ImportResult{ImportedAt: time.Now()}
	for _, rec := range in.Rollups {
		if rec == nil || rec.Date == "" {
			result.DaysSkipped++
			continue
		}
		data, err := json.Marshal(rec)
		if err != nil {
			result.DaysSkipped++
			continue
		}
		if err := i.store.Put(ctx, analytics.Collection, analytics.DocumentKey(rec.Date), data); err != nil {
			return result, fmt.Errorf("failed to restore rollup %s: %w", rec.Date, err)
		}
		result.DaysImported++
	}
	return result, nil
}
