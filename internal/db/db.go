package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/llmlog/internal/models"
)

// CurrentSchemaVersion is written to the meta table on every start
const CurrentSchemaVersion = 1

// batchSize caps the rows per multi-row INSERT statement
const batchSize = 500

// DSN pragmas applied to every connection
const pragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

var (
	ErrInvalidRating       = models.ErrInvalidRating
	ErrInteractionNotFound = errors.New("interaction not found")
	ErrSessionNotFound     = errors.New("session not found")
)

// Config holds DB configuration
type Config struct {
	Path     string
	Logger   *slog.Logger
	LogLevel logger.LogLevel
}

// Store is the canonical SQLite store. A Store obtained inside
// RunInTransaction is bound to that transaction.
type Store struct {
	db     *gorm.DB
	path   string
	logger *slog.Logger
}

// Open creates the database file if needed, connects and migrates the schema
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Warn
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path+pragmas), &gorm.Config{
		Logger: newGormLogger(cfg.Logger, cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids "database is locked"
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	store := &Store{db: db, path: cfg.Path, logger: cfg.Logger}

	if err := store.InitializeSchema(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	cfg.Logger.Debug("database opened", "path", cfg.Path)
	return store, nil
}

// InitializeSchema creates the tables and indexes if absent and records the
// schema version. Safe to call on every start.
func (s *Store) InitializeSchema(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	if err := db.AutoMigrate(
		&models.Meta{},
		&models.TimingRecord{},
		&models.Session{},
		&models.Interaction{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	marker := models.Meta{Key: models.SchemaVersionKey, Value: strconv.Itoa(CurrentSchemaVersion)}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&marker).Error; err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}

	return nil
}

// SchemaVersion reads the stored schema version, 0 when none was recorded
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var marker models.Meta
	err := s.db.WithContext(ctx).Where("key = ?", models.SchemaVersionKey).First(&marker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	version, err := strconv.Atoi(marker.Value)
	if err != nil {
		return 0, fmt.Errorf("invalid schema version %q: %w", marker.Value, err)
	}
	return version, nil
}

// RunInTransaction runs work against a Store bound to one transaction.
// It commits when work returns nil and rolls back otherwise; a panic in
// work also rolls back and is re-raised. Calling it on a Store that is
// already transactional opens a savepoint.
func (s *Store) RunInTransaction(ctx context.Context, work func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return work(&Store{db: tx, path: s.path, logger: s.logger})
	})
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
