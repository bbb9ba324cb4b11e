package cli

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"metricsbridge/internal/app"
	"metricsbridge/pkg/config"
	"metricsbridge/pkg/logger"
)

var (
	envFile   string
	logLevel  string
	appHandle *app.App
)

var rootCmd = &cobra.Command{
	Use:           "metricsbridge",
	Short:         "Serve combined Google Analytics and Google Ads metrics",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if appHandle != nil || cmd.Name() == versionCmd.Name() {
			return nil
		}

		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		log := logger.New(cfg.Logging.Level)
		appHandle, err = app.New(cmd.Context(), cfg, log, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(versionCmd)
}

func getApp() *app.App {
	if appHandle == nil {
		panic("application not initialized; PersistentPreRunE not executed")
	}
	return appHandle
}
