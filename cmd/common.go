package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/config"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/database"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/logger"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/verify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// session is an open connection plus everything a command needs around it.
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	adapter database.DatabaseAdapter
	db      *gorm.DB
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := fanOutFromConfig(cfg).Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{
		Level:             cfg.Log.Level,
		Encoding:          cfg.Log.Encoding,
		IsDevelopment:     cfg.Log.Level == "debug",
		DisableStacktrace: cfg.Log.Level != "debug",
	})
}

func openSession(ctx context.Context, cfg *config.Config, log *zap.Logger) (*session, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	adapter, err := database.NewAdapter(cfg.Database.Provider)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(ctx, adapter, dbURL, &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Debug("connected", zap.String("provider", adapter.Name()))

	return &session{cfg: cfg, log: log, adapter: adapter, db: db}, nil
}

func (s *session) repository() *catalog.Repository {
	return catalog.NewRepository(s.db, s.adapter, s.cfg.Seed.BatchSize)
}

func (s *session) verifier() (*verify.Verifier, error) {
	sqlxDB, err := database.SQLX(s.db, s.adapter)
	if err != nil {
		return nil, err
	}
	return verify.New(sqlxDB, s.adapter.Placeholder()), nil
}

func (s *session) Close() {
	if err := database.Close(s.db); err != nil {
		s.log.Warn("failed to close database", zap.Error(err))
	}
}

func fanOutFromConfig(cfg *config.Config) seeder.FanOut {
	return seeder.FanOut{
		Collections:                   cfg.Seed.Collections,
		CategoriesPerCollection:       cfg.Seed.CategoriesPerCollection,
		SubcollectionsPerCategory:     cfg.Seed.SubcollectionsPerCategory,
		SubcategoriesPerSubcollection: cfg.Seed.SubcategoriesPerSubcollection,
		ProductsPerSubcategory:        cfg.Seed.ProductsPerSubcategory,
	}
}

func isForced(cmd *cobra.Command) bool {
	force, _ := cmd.Flags().GetBool("force")
	return force
}

// stdin is where confirm reads answers from.
var stdin io.Reader = os.Stdin

func confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	reader := bufio.NewReader(stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y"
}
