package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the seeded catalog against the configured fan-out",
	Long: `
Check that the catalog looks like a complete seeding run left it:

- every table holds the expected number of rows
- slugs are unique within their table
- every foreign key points at an existing parent
- every parent has exactly the configured number of children

Exits with an error when any check fails.`,
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

		return runVerification(ctx, sess, fanOutFromConfig(cfg))
	},
}

func runVerification(ctx context.Context, sess *session, fanOut seeder.FanOut) error {
	v, err := sess.verifier()
	if err != nil {
		return err
	}

	color.Cyan("🔍 Verifying catalog...")
	report, err := v.Verify(ctx, fanOut)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	for _, check := range report.Checks {
		if check.Passed {
			color.Green("  ✅ %-28s %s", check.Name, check.Detail)
		} else {
			color.Red("  ❌ %-28s %s", check.Name, check.Detail)
		}
	}

	if failures := report.Failures(); len(failures) > 0 {
		sess.log.Warn("verification failed", zap.Int("failed_checks", len(failures)))
		return fmt.Errorf("%d of %d verification checks failed", len(failures), len(report.Checks))
	}

	color.Green("✅ All %d checks passed", len(report.Checks))
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
