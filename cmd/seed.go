package cmd

import (
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// SeedError marks a failed seeding run so main can report it as such.
type SeedError struct {
	Err error
}

func (e *SeedError) Error() string {
	return "Seeding failed: " + e.Err.Error()
}

func (e *SeedError) Unwrap() error {
	return e.Err
}

type seedOptions struct {
	noClear       bool
	noTransaction bool
	dryRun        bool
	verify        bool
	report        string
}

var seedOpts seedOptions

func defaultSeedOptions() seedOptions {
	return seedOptions{}
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Clear the catalog and fill it with fake data",
	Long: `
Clear the catalog tables and insert generated rows in dependency order:

  collections → categories → subcollections → subcategories → products

Every parent gets the same number of children, taken from the config file
or the flags below. Slugs are unique within their table. By default the
whole run happens in one transaction, so a failure leaves the database as
it was.

⚠️  WARNING: clearing deletes every existing catalog row!

Use --force to skip the confirmation prompt.`,
	Example: `  catalogseed seed
  catalogseed seed --collections 5 --products 3 --rand-seed 42
  catalogseed seed --dry-run --report seed-report.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd, seedOpts)
	},
}

func runSeed(cmd *cobra.Command, opts seedOptions) error {
	if err := seed(cmd, opts); err != nil {
		return &SeedError{Err: err}
	}
	return nil
}

var errDryRunVerify = errors.New("--verify needs a database and cannot be combined with --dry-run")

func seed(cmd *cobra.Command, opts seedOptions) error {
	ctx := cmd.Context()

	if opts.dryRun && opts.verify {
		return errDryRunVerify
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	fanOut := fanOutFromConfig(cfg)
	seedCfg := seeder.SeedConfig{
		FanOut:        fanOut,
		Clear:         cfg.Seed.Clear && !opts.noClear,
		NoTransaction: !cfg.Seed.Transaction || opts.noTransaction,
		DryRun:        opts.dryRun,
		RandSeed:      cfg.Seed.RandSeed,
	}

	var summary *seeder.Summary
	if opts.dryRun {
		summary, err = seeder.New(seeder.NewMemoryStore(), cfg.Database.Provider, seedCfg, log).Seed(ctx)
		if err != nil {
			return err
		}
	} else {
		sess, err := openSession(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer sess.Close()

		if seedCfg.Clear && !isForced(cmd) {
			color.Yellow("⚠️  This will delete all rows from: %v", catalog.Tables)
			if !confirm("Continue?") {
				color.Yellow("Seeding cancelled")
				return nil
			}
		}

		summary, err = seeder.New(sess.repository(), sess.adapter.Name(), seedCfg, log).Seed(ctx)
		if err != nil {
			return err
		}

		if opts.verify {
			if err := runVerification(ctx, sess, fanOut); err != nil {
				return err
			}
		}
	}

	if opts.report != "" {
		if err := seeder.WriteReport(opts.report, summary); err != nil {
			return err
		}
		color.Cyan("📝 Report written to %s", opts.report)
		log.Debug("report written", zap.String("path", opts.report))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)

	flags := seedCmd.Flags()
	flags.Int("collections", 0, "Number of collections (default from config, 20)")
	flags.Int("categories", 0, "Categories per collection (default from config, 5)")
	flags.Int("subcollections", 0, "Subcollections per category (default from config, 2)")
	flags.Int("subcategories", 0, "Subcategories per subcollection (default from config, 2)")
	flags.Int("products", 0, "Products per subcategory (default from config, 10)")
	flags.Int("batch", 0, "Rows per INSERT statement (default from config, 500)")
	flags.Int64("rand-seed", 0, "Seed for the name, price and image generator (0 picks one)")

	flags.BoolVar(&seedOpts.noClear, "no-clear", false, "Keep existing rows instead of clearing the tables first")
	flags.BoolVar(&seedOpts.noTransaction, "no-transaction", false, "Commit each batch on its own instead of one transaction")
	flags.BoolVar(&seedOpts.dryRun, "dry-run", false, "Generate rows in memory without touching the database")
	flags.BoolVar(&seedOpts.verify, "verify", false, "Run the verification checks after seeding")
	flags.StringVar(&seedOpts.report, "report", "", "Write a YAML run report to this path")

	bindings := map[string]string{
		"seed.collections":                     "collections",
		"seed.categories_per_collection":       "categories",
		"seed.subcollections_per_category":     "subcollections",
		"seed.subcategories_per_subcollection": "subcategories",
		"seed.products_per_subcategory":        "products",
		"seed.batch_size":                      "batch",
		"seed.rand_seed":                       "rand-seed",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
		}
	}
}
