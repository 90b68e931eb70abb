package database

import (
	"context"
	"fmt"

	"patient-portal/config"

	"gorm.io/gorm"
)

// Engine opens the embedded or server SQL store behind the repository.
// Open returns only once the store has answered a ping.
type Engine interface {
	Name() string
	Open(ctx context.Context) (*gorm.DB, error)
	TimestampDefault() string
}

// NewEngine selects the engine for cfg.Driver.
func NewEngine(cfg config.DBConfig) (Engine, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return NewSQLiteEngine(cfg), nil
	case config.DriverPostgres:
		return NewPostgresEngine(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func awaitReady(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	return nil
}
