package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentKey is the fixed primary key of the single blob row. The
// database is a durability mechanism, not a query surface: relations
// live inside the document, never in table shape.
const documentKey = "scheduler"

type documentRecord struct {
	Key       string `gorm:"primaryKey;size:64"`
	Data      []byte
	UpdatedAt time.Time
}

func (documentRecord) TableName() string {
	return "documents"
}

// DBStore persists the blob in a single-row table through GORM. The
// same implementation backs the local SQLite tier and the remote
// Postgres variant.
type DBStore struct {
	db *gorm.DB
}

// PostgresConfig holds the connection settings for the remote tier.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewSQLiteStore opens (or creates) a SQLite database file.
func NewSQLiteStore(path string) (*DBStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return newDBStore(db)
}

// NewPostgresStore connects to the remote database variant.
func NewPostgresStore(cfg *PostgresConfig) (*DBStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return newDBStore(db)
}

func newDBStore(db *gorm.DB) (*DBStore, error) {
	if err := db.AutoMigrate(&documentRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &DBStore{db: db}, nil
}

func (s *DBStore) Load(ctx context.Context) ([]byte, error) {
	var rec documentRecord
	result := s.db.WithContext(ctx).First(&rec, "key = ?", documentKey)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return rec.Data, nil
}

func (s *DBStore) Save(ctx context.Context, data []byte) error {
	rec := documentRecord{Key: documentKey, Data: data}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec)
	return result.Error
}

func (s *DBStore) Clear(ctx context.Context) error {
	result := s.db.WithContext(ctx).Delete(&documentRecord{}, "key = ?", documentKey)
	return result.Error
}

func (s *DBStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
