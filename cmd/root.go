package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.0.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════╗",
		"║                                              ║",
		"║   🌱  catalogseed                            ║",
		"║                                              ║",
		"║   collections → categories → subcollections  ║",
		"║        → subcategories → products            ║",
		"║                                              ║",
		"╚══════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "catalogseed",
	Short: "Fill a product catalog database with fake data",
	Long: `
catalogseed clears the catalog tables and fills them with generated
collections, categories, subcollections, subcategories and products,
inserted in dependency order with unique slugs.

Running catalogseed without a subcommand is the same as "catalogseed seed"
with the configured defaults.

Database Support:
- PostgreSQL
- MySQL
- SQLite`,
	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			showBanner()
			return nil
		}

		return runSeed(cmd, defaultSeedOptions())
	},
}

// Execute runs the CLI. An interrupt cancels the context, which rolls back an
// open seeding transaction.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./catalogseed.config.json)")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmations")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log at debug level, including SQL statements")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := config.LoadEnv(config.EnvFiles...); err != nil {
		color.Yellow("⚠️  %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName(config.DefaultConfigName)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := config.BindEnv(); err != nil {
		color.Yellow("⚠️  %v", err)
	}

	// Without --config a missing file is fine; defaults cover every key.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		color.Yellow("⚠️  Could not read config file %s: %v", cfgFile, err)
	}
}
