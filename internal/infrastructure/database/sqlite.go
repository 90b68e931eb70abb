package database

import (
	"context"
	"fmt"
	"strings"

	"patient-portal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sqliteEngine struct {
	cfg config.DBConfig
}

// NewSQLiteEngine returns the embedded engine addressed by cfg.Path. Plain
// paths, ":memory:" and "file:" URIs are all accepted.
func NewSQLiteEngine(cfg config.DBConfig) Engine {
	return &sqliteEngine{cfg: cfg}
}

func (e *sqliteEngine) Name() string {
	return config.DriverSQLite
}

// TimestampDefault keeps millisecond resolution so insertion order shows up
// in registeredAt; CURRENT_TIMESTAMP only has whole seconds in SQLite.
func (e *sqliteEngine) TimestampDefault() string {
	return "(strftime('%Y-%m-%d %H:%M:%f','now'))"
}

func (e *sqliteEngine) Open(ctx context.Context) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(buildDSN(e.cfg.Path, e.cfg.Durability)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", e.cfg.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// A private in-memory database lives on a single connection.
	if isPrivateMemory(e.cfg.Path) {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := awaitReady(ctx, db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// buildDSN appends the driver's per-connection pragmas so every pooled
// connection shares the same durability settings.
func buildDSN(path, durability string) string {
	params := []string{"_busy_timeout=5000"}
	if !isMemory(path) {
		synchronous := "NORMAL"
		if durability == config.DurabilityFull {
			synchronous = "FULL"
		}
		params = append(params, "_journal_mode=WAL", "_synchronous="+synchronous)
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory") || strings.HasPrefix(path, "file::memory:")
}

func isPrivateMemory(path string) bool {
	return isMemory(path) && !strings.Contains(path, "cache=shared")
}
