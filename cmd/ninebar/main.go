// Package main is the entry point for the ninebar CLI.
//
// ninebar can be run either as a library (SDK) or as a standalone i3bar
// status command with YAML configuration. This CLI provides the standalone
// approach.
//
// Usage:
//
//	ninebar run -c config.yaml      # Drive the status line (from i3bar)
//	ninebar validate -c config.yaml # Validate configuration
//	ninebar version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "ninebar",
	Short: "A concurrent i3bar status-line generator",
	Long: `ninebar generates a continuously updating i3bar status line.

It polls independent units (clock, CPU, memory, disk, network, battery,
wifi) at configurable intervals, merges their output into the i3bar JSON
protocol on stdout, and routes click events from stdin back to the unit
they landed on.

Quick start:
  1. Create a config file (ninebar.yaml)
  2. Point your i3 bar block at it: status_command ninebar run -c ninebar.yaml

Example config:
  min_interval: 250ms
  units:
    - type: cpu
      interval: 500ms
    - type: memory
    - type: time
      format: "Mon Jan 02 - 15:04"`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this ninebar binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ninebar %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
