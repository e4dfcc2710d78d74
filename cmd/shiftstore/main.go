package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	"github.com/gartstein/shiftstore/internal/scheduler/events"
	"github.com/gartstein/shiftstore/internal/scheduler/storage"
	"github.com/gartstein/shiftstore/internal/scheduler/store"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	SQLitePath   string   `yaml:"SQLITE_PATH"`
	FallbackPath string   `yaml:"FALLBACK_PATH"`
	DBHost       string   `yaml:"DB_HOST"`
	DBPort       int      `yaml:"DB_PORT"`
	DBUser       string   `yaml:"DB_USER"`
	DBPassword   string   `yaml:"DB_PASSWORD"`
	DBName       string   `yaml:"DB_NAME"`
	DBSSLMode    string   `yaml:"DB_SSLMODE"`
	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	backing := storage.Open(storageConfig(cfg), logger)
	defer func() {
		if err := backing.Close(); err != nil {
			logger.Error("failed to close backing store", zap.Error(err))
		}
	}()

	opts := []store.Option{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			logger.Fatal("failed to initialize event producer", zap.Error(err))
		}
		defer producer.Close()
		opts = append(opts, store.WithProducer(producer))
	}

	scheduler := store.New(backing, auth.SHA256Hasher{}, logger, opts...)
	if err := scheduler.Init(context.Background()); err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}

	waitForShutdown(logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration. Use real config tooling (e.g. Viper) in production.
func loadConfig() (*Config, error) {
	configPath := filepath.Join("internal", "scheduler", "config", "config.yaml")
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// storageConfig maps the YAML settings onto the backing-store tiers.
func storageConfig(cfg *Config) storage.Config {
	out := storage.Config{
		SQLitePath:   cfg.SQLitePath,
		FallbackPath: cfg.FallbackPath,
	}
	if cfg.DBHost != "" {
		out.Postgres = &storage.PostgresConfig{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		}
	}
	return out
}

// waitForShutdown blocks until an interrupt or SIGTERM is received.
func waitForShutdown(logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("Store stopped properly")
}
