package mysql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/database/common"
	"github.com/Masterminds/squirrel"
	mysqldriver "github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

func (m *Adapter) Name() string {
	return "mysql"
}

func (m *Adapter) DriverName() string {
	return "mysql"
}

func (m *Adapter) Placeholder() squirrel.PlaceholderFormat {
	return squirrel.Question
}

func (m *Adapter) Open(url string, cfg *gorm.Config) (*gorm.DB, error) {
	dsn, err := BuildDSN(url)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{DSN: dsn}), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get raw DB connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(0)
	sqlDB.SetConnMaxLifetime(15 * time.Minute)
	sqlDB.SetConnMaxIdleTime(3 * time.Minute)

	return db, nil
}

// ClearTable uses DELETE rather than TRUNCATE: MySQL refuses to truncate a
// table referenced by a foreign key and TRUNCATE commits implicitly.
func (m *Adapter) ClearTable(ctx context.Context, db *gorm.DB, table string) error {
	if err := common.CheckIdentifier(table); err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM `%s`", table)).Error
}

// BuildDSN accepts either a driver DSN or a mysql:// URL and returns a DSN
// for go-sql-driver with parseTime enabled.
func BuildDSN(url string) (string, error) {
	dsn := url
	if strings.HasPrefix(url, "mysql://") {
		dsn = convertURL(strings.TrimPrefix(url, "mysql://"))
	}

	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	cfg.ParseTime = true

	return cfg.FormatDSN(), nil
}

var sslModeReplacer = strings.NewReplacer(
	"ssl-mode=REQUIRED", "tls=skip-verify",
	"ssl-mode=DISABLED", "tls=false",
	"ssl-mode=VERIFY_CA", "tls=true",
	"ssl-mode=VERIFY_IDENTITY", "tls=true",
	"sslmode=require", "tls=skip-verify",
	"sslmode=disable", "tls=false",
	"sslmode=verify-ca", "tls=true",
	"sslmode=verify-full", "tls=true",
)

func convertURL(rest string) string {
	atIndex := strings.LastIndex(rest, "@")
	if atIndex <= 0 {
		return rest
	}
	credentials := rest[:atIndex]
	remainder := rest[atIndex+1:]

	slashIndex := strings.Index(remainder, "/")
	if slashIndex <= 0 {
		return rest
	}
	hostPort := remainder[:slashIndex]
	dbAndParams := sslModeReplacer.Replace(remainder[slashIndex+1:])

	return fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, dbAndParams)
}
