package ninebar

import (
	"errors"
	"io"
	"log/slog"
	"time"
)

// barConfig holds mutable state during Bar construction.
type barConfig struct {
	registrations []registration
	padding       int
	minInterval   time.Duration
	overrides     map[string]any
	logger        *slog.Logger
	out           io.Writer
	in            io.Reader
	lookPath      func(string) (string, error)
	cycleHooks    []func(CycleResult)
}

// Option is a function that configures a [Bar] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithUnit], [WithUnits], [WithPadding],
// [WithMinInterval], [WithOverride], [WithLogger], [WithOutput],
// [WithInput], [WithCycleHook].
type Option func(*barConfig) error

// WithUnit registers a single [Unit], with optional per-unit configuration.
//
// Units appear on the bar in registration order. Can be called multiple
// times; at least one unit must be registered for [New] to succeed.
//
// Example:
//
//	bar, err := ninebar.New(
//	    ninebar.WithUnit(units.NewTime(), ninebar.WithName("clock")),
//	    ninebar.WithUnit(units.NewCPU(), ninebar.WithInterval(500*time.Millisecond)),
//	)
func WithUnit(u Unit, opts ...UnitOption) Option {
	return func(cfg *barConfig) error {
		if u == nil {
			return errors.New("unit cannot be nil")
		}
		reg := registration{
			unit:        u,
			interval:    defaultUnitInterval,
			readTimeout: defaultReadTimeout,
		}
		for _, opt := range opts {
			if err := opt(&reg); err != nil {
				return err
			}
		}
		cfg.registrations = append(cfg.registrations, reg)
		return nil
	}
}

// WithUnits registers multiple units with default per-unit configuration.
//
// This is a convenience for adding several units at once; equivalent to
// calling [WithUnit] for each without options.
func WithUnits(units ...Unit) Option {
	return func(cfg *barConfig) error {
		for _, u := range units {
			if err := WithUnit(u)(cfg); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithPadding sets the number of spaces added on each side of every
// element's text. Padding substitutes for the host's built-in separators,
// which the serializer suppresses. Defaults to 1.
//
// Returns an error if negative.
func WithPadding(n int) Option {
	return func(cfg *barConfig) error {
		if n < 0 {
			return errors.New("padding cannot be negative")
		}
		cfg.padding = n
		return nil
	}
}

// WithMinInterval sets the cadence of the line writer.
//
// The aggregated status line is written at this fixed interval regardless of
// how often individual units refresh: a unit publishing faster than the line
// writer simply has intermediate publications coalesced, and a clicked unit
// recomputes early without forcing an immediate line flush. Defaults to
// 250ms.
//
// Returns an error if the duration is zero or negative.
func WithMinInterval(d time.Duration) Option {
	return func(cfg *barConfig) error {
		if d <= 0 {
			return errors.New("min interval must be positive")
		}
		cfg.minInterval = d
		return nil
	}
}

// WithOverride sets a global element override applied to every unit's
// serialized chunk. Global overrides rank below each unit's own permanent
// and transient overrides but above the serializer's built-in defaults.
//
// Example:
//
//	bar, err := ninebar.New(
//	    ninebar.WithUnits(us...),
//	    ninebar.WithOverride("background", "#1D1F21"),
//	)
func WithOverride(key string, value any) Option {
	return func(cfg *barConfig) error {
		if key == "" {
			return errors.New("override key cannot be empty")
		}
		if cfg.overrides == nil {
			cfg.overrides = make(map[string]any)
		}
		cfg.overrides[key] = value
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Bar.
//
// The bar writes its line to stdout, so diagnostics must go elsewhere;
// the CLI sends JSON logs to stderr. If not specified, [slog.Default] is
// used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *barConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithOutput redirects the status-line stream. Defaults to os.Stdout.
// Primarily useful for tests and for embedding the engine under a different
// transport.
//
// Returns an error if the writer is nil.
func WithOutput(w io.Writer) Option {
	return func(cfg *barConfig) error {
		if w == nil {
			return errors.New("output writer cannot be nil")
		}
		cfg.out = w
		return nil
	}
}

// WithInput redirects the click-event stream. Defaults to os.Stdin.
// Primarily useful for tests.
//
// Returns an error if the reader is nil.
func WithInput(r io.Reader) Option {
	return func(cfg *barConfig) error {
		if r == nil {
			return errors.New("input reader cannot be nil")
		}
		cfg.in = r
		return nil
	}
}

// WithCycleHook registers a function invoked after every completed unit
// cycle, successful or failed.
//
// Multiple hooks may be registered; they run in registration order, on the
// publishing unit's goroutine. Hooks must be non-blocking: a slow hook
// delays that unit's next cycle (and only that unit's). Panics within hooks
// are recovered and logged; they never take down the scheduler.
//
// Nil hooks are silently ignored.
func WithCycleHook(hook func(CycleResult)) Option {
	return func(cfg *barConfig) error {
		if hook == nil {
			return nil
		}
		cfg.cycleHooks = append(cfg.cycleHooks, hook)
		return nil
	}
}

// withLookPath substitutes the executable lookup used by the [WithRequires]
// check. Test seam; not part of the public API surface.
func withLookPath(lookPath func(string) (string, error)) Option {
	return func(cfg *barConfig) error {
		cfg.lookPath = lookPath
		return nil
	}
}
