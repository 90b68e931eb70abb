package database

import (
	"context"
	"fmt"

	"patient-portal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type postgresEngine struct {
	cfg config.DBConfig
}

func NewPostgresEngine(cfg config.DBConfig) Engine {
	return &postgresEngine{cfg: cfg}
}

func (e *postgresEngine) Name() string {
	return config.DriverPostgres
}

func (e *postgresEngine) TimestampDefault() string {
	return "CURRENT_TIMESTAMP"
}

func (e *postgresEngine) Open(ctx context.Context) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		e.cfg.Host, e.cfg.User, e.cfg.Password, e.cfg.Name, e.cfg.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := awaitReady(ctx, db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}
