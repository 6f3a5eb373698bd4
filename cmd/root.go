// Package cmd implements the command-line interface for pricefeed.
// It provides the root command and subcommands for running the ingestion
// service and inspecting its state.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sammenlign/pricefeed/cmd/checkurls"
	cmdjobs "github.com/sammenlign/pricefeed/cmd/jobs"
	cmdrefresh "github.com/sammenlign/pricefeed/cmd/refresh"
	"github.com/sammenlign/pricefeed/cmd/serve"
	"github.com/sammenlign/pricefeed/internal/config"
	"github.com/sammenlign/pricefeed/internal/database"
)

// version is overridden at build time.
var version = "0.1.0"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug mode for all commands.
	debug bool

	// rootCmd represents the root command for the pricefeed CLI.
	rootCmd = &cobra.Command{
		Use:   "pricefeed",
		Short: "A resilient price-ingestion service",
		Long: `pricefeed fetches provider pricing from unreliable upstream sources,
tracks job and provider health, and serves consumers a price value that is
fresh, stale-but-usable, or cached-fallback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to Viper.
	_ = godotenv.Load()

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pricefeed version %s\n", version)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := database.MigrateUp(cfg.Database); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	})

	rootCmd.AddCommand(serve.Command())
	rootCmd.AddCommand(cmdrefresh.Command())
	rootCmd.AddCommand(cmdjobs.Command())
	rootCmd.AddCommand(checkurls.Command())
}

// initConfig reads in the config file and environment variables.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Config file is optional: defaults and environment variables cover
	// everything it could provide.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v\n", err)
	}

	if err := bindEnvVars(); err != nil {
		return err
	}

	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}

	return nil
}

// bindEnvVars maps well-known environment variables to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"app.environment": {"APP_ENV"},
		"app.debug":       {"APP_DEBUG"},
		"logger.level":    {"LOG_LEVEL"},
		"logger.encoding": {"LOG_FORMAT"},
		"server.address":  {"SERVER_ADDRESS"},
	}
	for key, envs := range bindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}
