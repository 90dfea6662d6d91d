package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog tables",
	Long: `Create the collections, categories, subcollections, subcategories and
products tables, with their foreign keys, if they do not exist yet. Existing
tables get any missing columns and indexes. No data is removed.`,
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

		color.Cyan("🔧 Migrating catalog schema (%s)...", sess.adapter.Name())
		if err := catalog.AutoMigrate(ctx, sess.db); err != nil {
			return fmt.Errorf("failed to migrate catalog schema: %w", err)
		}
		color.Green("✅ Catalog schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
