package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ore/internal/cli"
	"ore/internal/config"
	applog "ore/internal/log"
	"ore/internal/timesheet"
)

var rootCmd = &cobra.Command{
	Use:   "orectl",
	Short: "orectl manages the working-time calendar and reports",
	Long: `orectl manages the working-time calendar and renders monthly
summaries and the organization report matrix from the command line.`,
}

var logger *applog.Logger

func main() {
	cli.LoadEnvFile()
	// Keep command output clean; log records go to stderr.
	logger = applog.New(applog.Config{
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(projectCmd)
}

// openStore loads config and opens the configured backend for one command
// invocation.
func openStore() (timesheet.Store, *config.Config, func() error, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	store, closeStore := cli.InitStore(logger, cfg)
	return store, cfg, closeStore, nil
}
