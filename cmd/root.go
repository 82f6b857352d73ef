// Package cmd implements the command-line interface for aiwatch.
// It provides the root command and subcommands for crawling, enrichment,
// digests, and the read-only API.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcrawl "github.com/jonesrussell/aiwatch/cmd/crawl"
	cmddigest "github.com/jonesrussell/aiwatch/cmd/digest"
	cmdenrich "github.com/jonesrussell/aiwatch/cmd/enrich"
	cmdscheduler "github.com/jonesrussell/aiwatch/cmd/scheduler"
	cmdserve "github.com/jonesrussell/aiwatch/cmd/serve"
	cmdsources "github.com/jonesrussell/aiwatch/cmd/sources"
	"github.com/jonesrussell/aiwatch/internal/config"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "aiwatch",
		Short: "An AI news crawler and digest builder",
		Long: `aiwatch crawls configured AI news sources, canonicalizes articles
into PostgreSQL, enriches them with summaries and entities, and builds
daily digests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	_ = godotenv.Load()

	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aiwatch version %s\n", version)
		},
	})

	rootCmd.AddCommand(cmdcrawl.Command())
	rootCmd.AddCommand(cmdsources.Command())
	rootCmd.AddCommand(cmdenrich.Command())
	rootCmd.AddCommand(cmddigest.Command())
	rootCmd.AddCommand(cmdserve.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
}

// initConfig reads the config file and environment variables into viper.
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

	config.SetDefaults(viper.GetViper())

	// The config file is optional; defaults and environment variables
	// cover the full configuration.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults)\n", err)
	}

	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("database.password", "DATABASE_PASSWORD"); err != nil {
		return fmt.Errorf("failed to bind DATABASE_PASSWORD: %w", err)
	}

	if debug {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
	}

	return nil
}
