package server

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ticketpulse/ticketpulse/pkg/config"
	"github.com/ticketpulse/ticketpulse/pkg/docstore"
	"github.com/ticketpulse/ticketpulse/pkg/docstore/badger"
	"github.com/ticketpulse/ticketpulse/pkg/docstore/memory"
	"github.com/ticketpulse/ticketpulse/pkg/docstore/mongo"
)

// Config holds server configuration.
type Config struct {
	Port          string
	DataDir       string
	Backend       string
	MongoURI      string
	MongoDatabase string
	RetentionDays int
	AppEnv        string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig(logger zerolog.Logger) (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", config.DefaultPort),
		DataDir:       getEnv("TICKETPULSE_DATA_DIR", config.DefaultDataDir),
		Backend:       getEnv("TICKETPULSE_BACKEND", config.DefaultBackend),
		MongoURI:      getEnv("TICKETPULSE_MONGO_URI", ""),
		MongoDatabase: getEnv("TICKETPULSE_MONGO_DB", config.DefaultMongoDatabase),
		RetentionDays: getEnvInt(logger, "TICKETPULSE_RETENTION_DAYS", config.DefaultRetentionDays),
		AppEnv:        getEnv("APP_ENV", "production"),
	}

	if cfg.RetentionDays <= 0 {
		return Config{}, fmt.Errorf("retention days must be positive, got %d", cfg.RetentionDays)
	}

	if cfg.Backend == "badger" {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return Config{}, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// InitializeStorage opens the document store named by the configuration.
func InitializeStorage(ctx context.Context, cfg Config, logger zerolog.Logger) (docstore.Store, error) {
	switch cfg.Backend {
	case "memory":
		logger.Warn().Msg("using in-memory storage, data will not survive restarts")
		return memory.New(), nil
	case "badger":
		logger.Info().Str("dir", cfg.DataDir).Msg("initializing badger storage")
		return badger.New(badger.Config{Path: cfg.DataDir})
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("mongo backend selected but TICKETPULSE_MONGO_URI is empty")
		}
		logger.Info().Str("database", cfg.MongoDatabase).Msg("connecting to mongo storage")
		connectCtx, cancel := context.WithTimeout(ctx, config.MongoConnectTimeout)
		defer cancel()
		return mongo.New(connectCtx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// getEnv gets a string from an environment variable or returns the default.
func getEnv(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvInt gets an int from an environment variable or returns the default.
func getEnvInt(logger zerolog.Logger, key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		logger.Warn().Str("key", key).Str("value", val).Int("default", defaultValue).
			Msg("invalid integer in environment, using default")
	}
	return defaultValue
}
