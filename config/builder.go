package config

import (
	"fmt"

	"github.com/ninebar/ninebar"
	"github.com/ninebar/ninebar/units"
)

// BuildOptions translates a validated [Config] into ninebar constructor
// options: one [ninebar.WithUnit] per declared unit, in declaration order,
// plus the bar-level settings the file carries.
//
// The returned options are ready to pass to [ninebar.New], possibly
// appended to programmatic options.
func BuildOptions(cfg *Config) ([]ninebar.Option, error) {
	opts := []ninebar.Option{
		ninebar.WithMinInterval(cfg.MinInterval.Duration()),
	}
	if cfg.Padding != nil {
		opts = append(opts, ninebar.WithPadding(*cfg.Padding))
	}
	for key, value := range cfg.Overrides {
		opts = append(opts, ninebar.WithOverride(key, value))
	}

	for i, uc := range cfg.Units {
		unit, err := buildUnit(uc)
		if err != nil {
			return nil, fmt.Errorf("units[%d]: %w", i, err)
		}
		opts = append(opts, ninebar.WithUnit(unit, unitOptions(uc)...))
	}

	return opts, nil
}

// buildUnit constructs the unit implementation for one declaration.
func buildUnit(uc UnitConfig) (ninebar.Unit, error) {
	switch uc.Type {
	case "time":
		return units.NewTime(uc.Format), nil
	case "cpu":
		return units.NewCPU(), nil
	case "memory":
		return units.NewMemory(), nil
	case "disk":
		return units.NewDisk(uc.Device), nil
	case "net":
		return units.NewNet(uc.Interface), nil
	case "battery":
		return units.NewBattery(uc.Battery), nil
	case "wifi":
		return units.NewWifi(uc.Interface), nil
	default:
		// validation rejects unknown types before this point
		return nil, fmt.Errorf("unknown unit type %q", uc.Type)
	}
}

// unitOptions collects the per-unit registration options for one
// declaration.
func unitOptions(uc UnitConfig) []ninebar.UnitOption {
	var opts []ninebar.UnitOption

	if uc.Name != "" {
		opts = append(opts, ninebar.WithName(uc.Name))
	}
	if uc.Interval != 0 {
		opts = append(opts, ninebar.WithInterval(uc.Interval.Duration()))
	}
	if uc.ReadTimeout != 0 {
		opts = append(opts, ninebar.WithReadTimeout(uc.ReadTimeout.Duration()))
	}

	requires := uc.Requires
	if len(requires) == 0 && uc.Type == "wifi" {
		// the wifi unit shells out to iwgetid; degrade it up front on
		// systems without wireless tooling
		requires = []string{"iwgetid"}
	}
	if len(requires) > 0 {
		opts = append(opts, ninebar.WithRequires(requires...))
	}

	return opts
}
