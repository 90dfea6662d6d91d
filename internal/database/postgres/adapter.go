package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/database/common"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

func (p *Adapter) Name() string {
	return "postgresql"
}

func (p *Adapter) DriverName() string {
	return "pgx"
}

func (p *Adapter) Placeholder() squirrel.PlaceholderFormat {
	return squirrel.Dollar
}

func (p *Adapter) Open(url string, cfg *gorm.Config) (*gorm.DB, error) {
	connConfig, err := pgx.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection URL: %w", err)
	}

	connConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	sqlDB := stdlib.OpenDB(*connConfig)
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(15 * time.Minute)
	sqlDB.SetConnMaxIdleTime(3 * time.Minute)

	db, err := gorm.Open(gormpg.New(gormpg.Config{Conn: sqlDB}), cfg)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return db, nil
}

func (p *Adapter) ClearTable(ctx context.Context, db *gorm.DB, table string) error {
	stmt, err := ClearStatement(table)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(stmt).Error
}

// ClearStatement empties table and resets its identity sequence. CASCADE keeps
// the statement valid when a child table has not been cleared first.
func ClearStatement(table string) (string, error) {
	if err := common.CheckIdentifier(table); err != nil {
		return "", err
	}
	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", pq.QuoteIdentifier(table)), nil
}
