package database

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

var ErrUnsupportedProvider = errors.New("unsupported database provider")

// DatabaseAdapter hides the per-provider differences the seeder cares about:
// how to open a connection, how to empty a table, and which placeholder and
// driver names the read-side query builders need.
type DatabaseAdapter interface {
	Name() string
	Open(url string, cfg *gorm.Config) (*gorm.DB, error)

	// DriverName is the database/sql driver name, used by sqlx to pick a bind type.
	DriverName() string
	Placeholder() squirrel.PlaceholderFormat

	ClearTable(ctx context.Context, db *gorm.DB, table string) error
}
