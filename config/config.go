// Package config provides YAML configuration parsing for ninebar.
//
// This package enables running ninebar as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	padding: 1
//	min_interval: 250ms
//
//	units:
//	  - type: cpu
//	    interval: 500ms
//	  - type: memory
//	  - type: disk
//	    device: nvme0n1
//	  - type: net
//	    interface: ${NINEBAR_IFACE:-eth0}
//	  - type: battery
//	  - type: time
//	    name: clock
//	    format: "Mon Jan 02 - 15:04"
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// minLineInterval is the lowest allowed line-writer cadence. This prevents
// accidentally flooding the bar host with rewrites.
const minLineInterval = 50 * time.Millisecond

// Config is the root configuration structure for ninebar.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Padding is the number of spaces around each element's text.
	// Defaults to 1.
	Padding *int `yaml:"padding"`

	// MinInterval is the cadence of the aggregated line writer.
	// Accepts duration strings like "250ms", "1s". Defaults to 250ms.
	MinInterval Duration `yaml:"min_interval"`

	// Overrides are global element keys applied to every unit's chunk,
	// below per-unit overrides in precedence.
	Overrides map[string]any `yaml:"overrides"`

	// Units declares the bar's units, in display order.
	Units []UnitConfig `yaml:"units"`
}

// UnitConfig declares a single unit.
type UnitConfig struct {
	// Type selects the unit implementation: time, cpu, memory, disk, net,
	// battery, wifi.
	Type string `yaml:"type"`

	// Name is the unit's explicit name. Optional; unnamed units get a
	// name derived from their type, with repeats disambiguated.
	Name string `yaml:"name"`

	// Interval is the unit's poll interval. Defaults to 1s.
	Interval Duration `yaml:"interval"`

	// ReadTimeout bounds a single read. Defaults to 5s.
	ReadTimeout Duration `yaml:"read_timeout"`

	// Requires lists executables the unit needs on PATH. The wifi type
	// defaults to [iwgetid] when unset.
	Requires []string `yaml:"requires"`

	// Format is the clock layout for time units (Go reference time).
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Format string `yaml:"format"`

	// Device is the block device for disk units, e.g. "sda".
	// Values support environment variable substitution.
	Device string `yaml:"device"`

	// Interface is the interface name for net and wifi units.
	// Values support environment variable substitution.
	Interface string `yaml:"interface"`

	// Battery is the battery id for battery units (BAT<id>). Defaults
	// to 0.
	Battery int `yaml:"battery"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// unitTypes is the set of recognised unit type strings.
var unitTypes = map[string]bool{
	"time":    true,
	"cpu":     true,
	"memory":  true,
	"disk":    true,
	"net":     true,
	"battery": true,
	"wifi":    true,
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in Format, Device, and Interface
// values. Defaults are applied for MinInterval (250ms) and per-unit
// intervals (1s).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.MinInterval == 0 {
		cfg.MinInterval = Duration(250 * time.Millisecond)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.MinInterval.Duration() < minLineInterval {
		return fmt.Errorf("min_interval must be at least %s, got %s", minLineInterval, c.MinInterval.Duration())
	}
	if c.Padding != nil && *c.Padding < 0 {
		return fmt.Errorf("padding cannot be negative, got %d", *c.Padding)
	}
	if len(c.Units) == 0 {
		return fmt.Errorf("at least one unit is required")
	}

	for i := range c.Units {
		u := &c.Units[i]

		if u.Type == "" {
			return fmt.Errorf("units[%d]: type is required", i)
		}
		if !unitTypes[u.Type] {
			return fmt.Errorf("units[%d]: unknown type %q", i, u.Type)
		}

		for _, field := range []*string{&u.Format, &u.Device, &u.Interface} {
			expanded, err := expandEnvVars(*field)
			if err != nil {
				return fmt.Errorf("units[%d] (%s): %w", i, u.Type, err)
			}
			*field = expanded
		}

		switch u.Type {
		case "disk":
			if u.Device == "" {
				return fmt.Errorf("units[%d]: disk units require a device", i)
			}
		case "net", "wifi":
			if u.Interface == "" {
				return fmt.Errorf("units[%d]: %s units require an interface", i, u.Type)
			}
		}

		if u.Interval != 0 && u.Interval.Duration() <= 0 {
			return fmt.Errorf("units[%d] (%s): interval must be positive, got %s",
				i, u.Type, u.Interval.Duration())
		}
		if u.ReadTimeout != 0 && u.ReadTimeout.Duration() <= 0 {
			return fmt.Errorf("units[%d] (%s): read_timeout must be positive, got %s",
				i, u.Type, u.ReadTimeout.Duration())
		}
		if u.Battery < 0 {
			return fmt.Errorf("units[%d]: battery id cannot be negative, got %d", i, u.Battery)
		}
	}

	return nil
}
