package database

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/database/mysql"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/database/postgres"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/database/sqlite"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

func NewAdapter(provider string) (DatabaseAdapter, error) {
	switch provider {
	case "postgresql", "postgres":
		return postgres.New(), nil
	case "mysql":
		return mysql.New(), nil
	case "sqlite", "sqlite3":
		return sqlite.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}

// Connect opens the database through the adapter and verifies it answers a ping.
func Connect(ctx context.Context, adapter DatabaseAdapter, url string, cfg *gorm.Config) (*gorm.DB, error) {
	db, err := adapter.Open(url, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", adapter.Name(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get raw DB connection: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// SQLX wraps the connection pool behind db for read-side queries.
func SQLX(db *gorm.DB, adapter DatabaseAdapter) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get raw DB connection: %w", err)
	}
	return sqlx.NewDb(sqlDB, adapter.DriverName()), nil
}
