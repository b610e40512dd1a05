package analytics

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
	"github.com/ticketpulse/ticketpulse/pkg/records"
)

// Engine computes, persists and serves daily analytics rollups. It holds no
// mutable state of its own: every operation is a function of its inputs plus
// the document store, so concurrent callers can only race idempotently.
type Engine struct {
	store  docstore.Store
	source *records.Source
	log    zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New creates an engine over the document store.
func New(store docstore.Store, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		source: records.NewSource(store),
		log:    logger.With().Str("component", "analytics").Logger(),
		now:    time.Now,
	}
}
