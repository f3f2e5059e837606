package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tax-estimator/config"
	"tax-estimator/logger"
)

var (
	flagConfig   string
	flagLogLevel string
	flagSchedule string
)

var rootCmd = &cobra.Command{
	Use:           "taxestimator",
	Short:         "Income, sales and property tax estimates",
	Long:          "Estimate income, sales and property tax breakdowns from static rate tables, on the command line or over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagSchedule, "schedule", "", "Override tax schedule (simplified, detailed)")
}

// loadConfig is shared by every subcommand: it reads the config, applies
// flag overrides and initializes the global logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagSchedule != "" {
		cfg.Tax.Schedule = flagSchedule
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON}); err != nil {
		return cfg, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}
