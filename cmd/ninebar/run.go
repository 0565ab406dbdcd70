package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ninebar/ninebar"
	"github.com/ninebar/ninebar/config"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 5 * time.Second
)

// newLogger creates a JSON logger for CLI use.
//
// Logs go to stderr: stdout carries the i3bar protocol stream and must
// stay clean.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// runCmd drives the status line on stdout.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the status line",
	Long: `Drive an i3bar status line on stdout.

The command will:
  - Load configuration from the specified YAML file
  - Start polling all configured units
  - Emit the i3bar JSON protocol on stdout
  - Route click events from stdin back to the clicked unit

Intended to be invoked by the bar host:

  bar {
    status_command ninebar run -c ~/.config/ninebar/config.yaml
  }

The process runs until interrupted (Ctrl+C) or receives SIGTERM.`,
	RunE: runBar,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = runCmd.MarkFlagRequired("config")
}

func runBar(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("config loaded",
		"units", len(cfg.Units),
		"min_interval", cfg.MinInterval.Duration().String(),
	)

	// convert config to SDK options
	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("failed to build units: %w", err)
	}
	opts = append(opts, ninebar.WithLogger(logger))

	bar, err := ninebar.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create bar: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the bar - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- bar.Run(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("bar error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for the unit loops to drain with a timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("bar error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
