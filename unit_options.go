package ninebar

import (
	"errors"
	"time"
)

// UnitOption configures a single unit registration inside [WithUnit].
//
// UnitOption implements the functional options pattern, allowing optional
// per-unit configuration in a type-safe, extensible way. Options return an
// error if validation fails.
//
// Built-in options: [WithName], [WithInterval], [WithRequires],
// [WithReadTimeout].
type UnitOption func(*registration) error

// WithName sets an explicit name for the unit.
//
// The name is the element's identity on the wire: the bar host echoes it
// back in click events, and the engine uses it for dispatch. Explicit names
// are taken verbatim; registering two units with the same final name is a
// fatal configuration error that puts the whole bar into global-failure
// mode.
//
// If no name is given, one is derived from the unit's implementing type,
// with repeated auto-named instances disambiguated by an _N suffix.
//
// Returns an error if the name is empty.
func WithName(name string) UnitOption {
	return func(reg *registration) error {
		if name == "" {
			return errors.New("unit name cannot be empty")
		}
		reg.name = name
		reg.explicit = true
		return nil
	}
}

// WithInterval sets the unit's poll interval.
//
// The interval is the target time between successive Read/Format cycles.
// A click wakes the unit early; the interval then restarts from that cycle.
// Defaults to 1 second.
//
// Returns an error if the duration is zero or negative.
func WithInterval(d time.Duration) UnitOption {
	return func(reg *registration) error {
		if d <= 0 {
			return errors.New("unit interval must be positive")
		}
		reg.interval = d
		return nil
	}
}

// WithRequires declares executables the unit needs on PATH.
//
// The check runs once, during [New]. If any executable is missing, the unit
// is permanently replaced with a static "<name> [<exec> not found]" chunk
// and the real implementation is never invoked.
func WithRequires(executables ...string) UnitOption {
	return func(reg *registration) error {
		reg.requires = append(reg.requires, executables...)
		return nil
	}
}

// WithReadTimeout bounds the unit's Read call.
//
// A unit whose external dependency hangs must not stall the bar: Read is
// invoked with a deadline-carrying context and a deadline overrun is treated
// as an ordinary read failure for that cycle. Defaults to 5 seconds.
//
// Returns an error if the duration is zero or negative.
func WithReadTimeout(d time.Duration) UnitOption {
	return func(reg *registration) error {
		if d <= 0 {
			return errors.New("read timeout must be positive")
		}
		reg.readTimeout = d
		return nil
	}
}
