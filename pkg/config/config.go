package config

import "time"

// Server defaults
const (
	DefaultPort    = "8080"
	DefaultDataDir = "./data/ticketpulse"
	DefaultBackend = "badger"
)

// Retention
const (
	// DefaultRetentionDays keeps one year of rollups.
	DefaultRetentionDays = 365

	// CleanupInterval is how often the retention job runs.
	CleanupInterval = 24 * time.Hour

	// BadgerGCInterval controls value-log garbage collection.
	BadgerGCInterval = 10 * time.Minute
)

// Rollup refresh
const (
	// RefreshInterval is how often today's rollup is recomputed and pushed
	// to dashboard clients.
	RefreshInterval = 15 * time.Minute

	// RefreshTimeout bounds a single refresh computation.
	RefreshTimeout = 30 * time.Second
)

// HTTP timeouts
const (
	RequestTimeout     = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 60 * time.Second
	ShutdownTimeout    = 30 * time.Second
)

// Query limits
const (
	// MaxRangeDays caps a single range request; backfilling an unbounded
	// span would turn one HTTP call into thousands of computations.
	MaxRangeDays = 366

	// DefaultForecastDays is the horizon when the caller does not pass one.
	DefaultForecastDays = 7

	// MaxForecastDays caps the projection horizon.
	MaxForecastDays = 90
)

// WebSocket configuration
const (
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024
	WSBroadcastBuffer = 256
	WSChannelBuffer   = 10
	WSWriteDeadline   = 10 * time.Second
)

// Mongo defaults
const (
	DefaultMongoDatabase = "ticketpulse"
	MongoConnectTimeout  = 10 * time.Second
)
