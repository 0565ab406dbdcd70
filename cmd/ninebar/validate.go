package main

import (
	"fmt"
	"strings"

	"github.com/ninebar/ninebar/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without driving the bar.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a ninebar configuration file without driving the bar.

This command parses the YAML, expands environment variables, and validates
all fields. Useful for checking a config edit before restarting the bar.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  ninebar validate -c config.yaml
  ninebar validate --config ~/.config/ninebar/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	types := make([]string, len(cfg.Units))
	for i, u := range cfg.Units {
		types[i] = u.Type
	}

	padding := 1
	if cfg.Padding != nil {
		padding = *cfg.Padding
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Padding:      %d\n", padding)
	fmt.Printf("  Min interval: %s\n", cfg.MinInterval.Duration())
	fmt.Printf("  Units:        %d (%s)\n", len(cfg.Units), strings.Join(types, ", "))

	return nil
}
