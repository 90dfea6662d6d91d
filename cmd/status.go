package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog row counts",
	Long: `Show the number of rows in each catalog table next to the number a
seeding run with the current configuration would produce.`,
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

		v, err := sess.verifier()
		if err != nil {
			return err
		}

		counts, err := v.Counts(ctx)
		if err != nil {
			return err
		}

		expected := fanOutFromConfig(cfg).Totals()
		header := color.New(color.FgCyan, color.Bold)

		fmt.Println()
		header.Printf("📊 Catalog Status (%s)\n", sess.adapter.Name())
		fmt.Println("--------------------------------------")
		fmt.Printf("%-16s %10s %10s\n", "Table", "Rows", "Expected")

		var total, totalExpected int64
		for _, table := range catalog.Tables {
			line := fmt.Sprintf("%-16s %10d %10d", table, counts[table], expected[table])
			if counts[table] == int64(expected[table]) {
				color.Green("%s", line)
			} else {
				color.Yellow("%s", line)
			}
			total += counts[table]
			totalExpected += int64(expected[table])
		}
		fmt.Println("--------------------------------------")
		fmt.Printf("%-16s %10d %10d\n", "Total", total, totalExpected)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
