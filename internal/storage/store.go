// Package storage wraps access to the relational database behind a GORM-backed
// repository and exposes the transactional batch primitive for board updates.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"zcrum/internal/models"
)

// Store wraps the database handle and exposes high level repository helpers.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects to the configured database and runs the schema migrations.
// Driver is "postgres" for deployments or "sqlite" for local development and
// tests.
func Open(driver, dsn string, logger *slog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database dsn")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite":
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == "sqlite" {
		// A single connection keeps in-memory databases coherent and avoids
		// SQLITE_BUSY under concurrent writes.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Sprint{},
		&models.Issue{},
		&models.ActivityLog{},
	); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database ready", slog.String("driver", driver))
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureDir(dsn string) error {
	if dsn == ":memory:" || filepath.Dir(dsn) == "." {
		return nil
	}
	if len(dsn) > 5 && dsn[:5] == "file:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(dsn), 0o755)
}
