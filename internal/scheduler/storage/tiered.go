package storage

import (
	"go.uber.org/zap"
)

// Config selects a backing tier. When Postgres is set the remote tier
// is used; otherwise the local SQLite file is preferred, degrading to a
// plain JSON file, and finally to process memory.
type Config struct {
	Postgres     *PostgresConfig
	SQLitePath   string
	FallbackPath string
}

// Open picks the best available tier. A tier that fails to open is
// logged and the next one is tried; Open itself never fails.
func Open(cfg Config, logger *zap.Logger) BackingStore {
	log := logger.Named("storage")

	if cfg.Postgres != nil {
		store, err := NewPostgresStore(cfg.Postgres)
		if err == nil {
			log.Info("using postgres backing store", zap.String("host", cfg.Postgres.Host))
			return store
		}
		log.Warn("postgres tier unavailable, degrading", zap.Error(err))
	}

	if cfg.SQLitePath != "" {
		store, err := NewSQLiteStore(cfg.SQLitePath)
		if err == nil {
			log.Info("using sqlite backing store", zap.String("path", cfg.SQLitePath))
			return store
		}
		log.Warn("sqlite tier unavailable, degrading", zap.Error(err))
	}

	if cfg.FallbackPath != "" {
		log.Info("using file backing store", zap.String("path", cfg.FallbackPath))
		return NewFileStore(cfg.FallbackPath)
	}

	log.Warn("no durable tier configured, state will not survive restarts")
	return NewMemoryStore()
}
