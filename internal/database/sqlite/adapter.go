package sqlite

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/database/common"
	"github.com/Masterminds/squirrel"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// defaultParams are added to every DSN unless the URL sets the same option,
// under its name or one of the driver's aliases.
var defaultParams = []struct {
	key     string
	value   string
	aliases []string
}{
	{"_journal_mode", "WAL", []string{"_journal"}},
	{"_foreign_keys", "1", []string{"_fk"}},
	{"_busy_timeout", "5000", []string{"_timeout"}},
}

type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

func (s *Adapter) Name() string {
	return "sqlite"
}

func (s *Adapter) DriverName() string {
	return "sqlite3"
}

func (s *Adapter) Placeholder() squirrel.PlaceholderFormat {
	return squirrel.Question
}

func (s *Adapter) Open(dbURL string, cfg *gorm.Config) (*gorm.DB, error) {
	dsn, err := BuildDSN(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(gormsqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get raw DB connection: %w", err)
	}
	// sqlite serialises writers; one connection keeps transactions from tripping over locks.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

func (s *Adapter) ClearTable(ctx context.Context, db *gorm.DB, table string) error {
	if err := common.CheckIdentifier(table); err != nil {
		return err
	}

	tx := db.WithContext(ctx)
	if err := tx.Exec(fmt.Sprintf(`DELETE FROM "%s"`, table)).Error; err != nil {
		return err
	}

	// sqlite_sequence only exists once an AUTOINCREMENT table has been written to.
	var sequences int64
	if err := tx.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'").
		Scan(&sequences).Error; err != nil {
		return err
	}
	if sequences == 0 {
		return nil
	}
	return tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
}

// BuildDSN strips the sqlite:// scheme and merges the default pragmas into
// whatever query string the URL already carries.
func BuildDSN(rawURL string) (string, error) {
	dbPath, query, _ := strings.Cut(strings.TrimPrefix(rawURL, "sqlite://"), "?")

	params, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("invalid SQLite URL parameters: %w", err)
	}

	for _, p := range defaultParams {
		if isSet(params, p.key, p.aliases) {
			continue
		}
		params.Set(p.key, p.value)
	}
	return dbPath + "?" + params.Encode(), nil
}

func isSet(params url.Values, key string, aliases []string) bool {
	if params.Has(key) {
		return true
	}
	for _, alias := range aliases {
		if params.Has(alias) {
			return true
		}
	}
	return false
}
