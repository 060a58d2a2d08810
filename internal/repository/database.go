package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // Required for file source
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

// Supported database types.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS restrictions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	action_id TEXT NOT NULL,
	chat_id INTEGER NOT NULL,
	target_id INTEGER NOT NULL,
	kind TEXT NOT NULL,
	until_at DATETIME,
	success BOOLEAN NOT NULL DEFAULT 0,
	detail TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_restrictions_chat_id ON restrictions(chat_id, created_at);
`

// NewDB opens the audit database. Postgres schemas are managed by migrations
// under migrationsPath; SQLite gets its schema applied inline.
func NewDB(dbType, dataSourceName, migrationsPath string, logger *zap.Logger) (*sqlx.DB, error) {
	switch dbType {
	case TypePostgres:
		db, err := NewPostgresDB(dataSourceName, logger)
		if err != nil {
			return nil, err
		}
		if err := MigrateDB(db, migrationsPath, logger); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	case TypeSQLite:
		return NewSQLiteDB(dataSourceName, logger)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
}

// NewPostgresDB establishes a new connection to the PostgreSQL database.
func NewPostgresDB(dataSourceName string, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	logger.Info("Successfully connected to the database!", zap.String("type", TypePostgres))
	return db, nil
}

// NewSQLiteDB opens (creating if needed) a SQLite file and applies the schema.
func NewSQLiteDB(path string, logger *zap.Logger) (*sqlx.DB, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between the bot loop and the HTTP API.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	logger.Info("Successfully connected to the database!",
		zap.String("type", TypeSQLite),
		zap.String("path", path),
	)
	return db, nil
}

// MigrateDB runs database migrations.
func MigrateDB(db *sqlx.DB, migrationsPath string, logger *zap.Logger) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("couldn't get database instance for running migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "engagement_tracker", driver)
	if err != nil {
		return fmt.Errorf("couldn't create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("couldn't run database migration: %w", err)
	}

	logger.Info("Database migration was run successfully")
	return nil
}
