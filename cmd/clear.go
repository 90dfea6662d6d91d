package cmd

import (
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every catalog row",
	Long: `
Delete all rows from the catalog tables, children first:

  products → subcategories → subcollections → categories → collections

The tables themselves are kept.

⚠️  WARNING: This will permanently delete all catalog data!

Use --force to skip the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		sess, err := openSession(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer sess.Close()

		order, err := seeder.CatalogGraph().ClearOrder()
		if err != nil {
			return err
		}

		if !isForced(cmd) && !confirm(fmt.Sprintf("Delete all rows from %s?", strings.Join(order, ", "))) {
			color.Yellow("Clear cancelled")
			return nil
		}

		color.Yellow("🗑️  Clearing catalog...")
		repo := sess.repository()
		err = repo.Transaction(ctx, func(tx catalog.Store) error {
			return tx.Clear(ctx, order)
		})
		if err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}

		log.Info("catalog cleared", zap.Strings("tables", order))
		color.Green("✅ Catalog cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
