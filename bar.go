package ninebar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ninebar/ninebar/internal/click"
	"github.com/ninebar/ninebar/internal/engine"
	"github.com/ninebar/ninebar/internal/snapshot"
	"github.com/ninebar/ninebar/internal/wire"
)

const (
	defaultPadding     = 1
	defaultMinInterval = 250 * time.Millisecond
)

// CycleResult describes one completed unit cycle, delivered to functions
// registered via [WithCycleHook].
type CycleResult struct {
	// Unit is the unit's resolved name.
	Unit string

	// Text is the formatted display text published this cycle. Empty when
	// the cycle was suppressed or failed.
	Text string

	// Suppressed reports that Format elected to hide the unit this round.
	Suppressed bool

	// Err is the cycle's failure, if any. A non-nil Err means the unit
	// published its failure marker instead of Text.
	Err error

	// At is the cycle's completion timestamp.
	At time.Time
}

// Bar is the main orchestrator for unit scheduling and line emission.
//
// Bar owns a set of independently polled units, merges their latest chunks
// into i3bar status lines on stdout, and routes click events from stdin back
// to the unit they landed on. It is created with [New] and driven with
// [Bar.Run].
//
// The typical lifecycle is:
//
//	bar, err := ninebar.New(ninebar.WithUnit(units.NewTime()))
//	if err != nil {
//	    slog.Error("failed to create bar", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	bar.Run(ctx) // blocks until context cancelled
type Bar struct {
	registrations []registration
	padding       int
	minInterval   time.Duration
	overrides     map[string]any
	logger        *slog.Logger
	out           io.Writer
	in            io.Reader
	cycleHooks    []func(CycleResult)
	styles        map[string]*Style

	// duplicate holds the first colliding unit name, if any. A non-empty
	// value puts Run into permanent global-failure mode.
	duplicate string
}

// New creates a [Bar] from the given options.
//
// At least one unit must be registered via [WithUnit] or [WithUnits]; other
// options have defaults (padding 1, 250ms line interval, stdout/stdin
// streams, [slog.Default]).
//
// During construction New resolves unit names (auto-deriving and
// disambiguating unnamed units), runs each unit's required-executable check
// exactly once, and scans for duplicate names. A duplicate name is a fatal
// configuration error but deliberately not a construction error: the bar is
// still created and [Bar.Run] communicates a permanent, visible failure
// state to the host instead of crashing or emitting a line the host could
// not dispatch clicks against.
func New(opts ...Option) (*Bar, error) {
	cfg := &barConfig{
		padding:     defaultPadding,
		minInterval: defaultMinInterval,
		out:         os.Stdout,
		in:          os.Stdin,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.registrations) == 0 {
		return nil, errors.New("at least one unit is required")
	}

	resolveNames(cfg.registrations)
	checkRequires(cfg.registrations, cfg.lookPath)

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bar{
		registrations: cfg.registrations,
		padding:       cfg.padding,
		minInterval:   cfg.minInterval,
		overrides:     cfg.overrides,
		logger:        logger,
		out:           cfg.out,
		in:            cfg.in,
		cycleHooks:    cfg.cycleHooks,
		duplicate:     findDuplicate(cfg.registrations),
		styles:        make(map[string]*Style, len(cfg.registrations)),
	}
	for _, reg := range b.registrations {
		b.styles[reg.name] = NewStyle()
	}
	return b, nil
}

// Run emits the startup handshake and drives the bar until ctx is
// cancelled.
//
// Run is a blocking call. In normal operation it starts one scheduling loop
// per unit, the click router, and the line writer, and returns nil once the
// context is cancelled. If unit names collide, Run instead enters permanent
// global-failure mode: it emits a single error line at the line cadence,
// never schedules any unit, and never reads clicks.
//
// Run returns an error only when the output stream fails; the host closing
// stdout means there is nobody left to draw for.
func (b *Bar) Run(ctx context.Context) error {
	writer := wire.NewWriter(b.out)
	if err := writer.WriteHeader(); err != nil {
		return err
	}

	if ctx.Err() != nil {
		return nil
	}

	if b.duplicate != "" {
		b.logger.Error("duplicate unit name, entering global failure mode", "name", b.duplicate)
		return b.runGlobalFailure(ctx, writer)
	}

	b.logger.Info("bar starting",
		"unit_count", len(b.registrations),
		"min_interval", b.minInterval.String(),
	)

	names := make([]string, len(b.registrations))
	tasks := make([]engine.Task, len(b.registrations))
	for i, reg := range b.registrations {
		names[i] = reg.name
		tasks[i] = b.buildTask(reg)
	}

	table := snapshot.New(names)
	sched := engine.New(tasks, table, writer, b.minInterval, b.logger)
	router := click.NewRouter(b.in, sched.Dispatch, b.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		router.Run(gctx)
		return nil
	})
	g.Go(func() error {
		// unblock the router's stdin read on shutdown
		<-gctx.Done()
		if c, ok := b.in.(io.Closer); ok {
			_ = c.Close()
		}
		return nil
	})

	err := g.Wait()
	b.logger.Info("bar stopped")
	return err
}

// runGlobalFailure writes the fixed duplicate-name error line at the line
// cadence, forever. This protects the host from a line whose name key would
// be ambiguous for click dispatch.
func (b *Bar) runGlobalFailure(ctx context.Context, writer *wire.Writer) error {
	element := wire.EncodeBareElement(
		Colorize(fmt.Sprintf("GLOBAL FAILURE: duplicate unit name %s", b.duplicate), "#FF0000"),
	)

	ticker := time.NewTicker(b.minInterval)
	defer ticker.Stop()

	for {
		if err := writer.WriteLine([]string{element}); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// buildTask adapts one registration into the engine's task form. The
// closures capture the unit, its style, and the bar's global formatting
// settings; the engine stays decoupled from the public Unit type.
func (b *Bar) buildTask(reg registration) engine.Task {
	unit := reg.unit
	name := reg.name
	style := b.styles[name]

	cycle := func(ctx context.Context) (string, error) {
		readings, err := unit.Read(ctx)
		if err != nil {
			return "", err
		}

		text, ok := unit.Format(readings)
		if !ok {
			// suppression consumes nothing: a pending click highlight
			// survives until the unit next renders
			b.invokeHooks(CycleResult{Unit: name, Suppressed: true, At: time.Now()})
			return "", nil
		}

		transient, permanent := style.Consume()
		element, err := wire.EncodeElement(name, text, b.padding, b.overrides, permanent, transient)
		if err != nil {
			return "", err
		}
		b.invokeHooks(CycleResult{Unit: name, Text: text, At: time.Now()})
		return element, nil
	}

	fail := func(err error) string {
		text := b.failureText(name, err)
		transient, permanent := style.Consume()
		element, encErr := wire.EncodeElement(name, text, b.padding, b.overrides, permanent, transient)
		if encErr != nil {
			element = wire.EncodeBareElement(text)
		}
		b.invokeHooks(CycleResult{Unit: name, Err: err, At: time.Now()})
		return element
	}

	handleClick := func(ev click.Event) {
		c := Click{Button: ev.Button, X: ev.X, Y: ev.Y, Extra: ev.Extra}
		if handler, ok := unit.(ClickHandler); ok {
			handler.HandleClick(c, style)
			return
		}
		// default feedback: highlight the clicked element for one cycle
		style.SetTransient("border", Red)
	}

	loading, err := wire.EncodeElement(
		name,
		Colorize(fmt.Sprintf("unit %q loading", name), Violet),
		b.padding,
		b.overrides, nil, nil,
	)
	if err != nil {
		loading = ""
	}

	return engine.Task{
		Name:        name,
		Interval:    reg.interval,
		Timeout:     reg.readTimeout,
		Cycle:       cycle,
		Fail:        fail,
		HandleClick: handleClick,
		Loading:     loading,
	}
}

// failureText renders the inline failure marker for a unit cycle error.
// Self-reported unavailability shows the unit's own message; anything else
// gets the generic marker.
func (b *Bar) failureText(name string, err error) string {
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return Colorize(unavailable.Reason, Brown)
	}
	return Colorize(fmt.Sprintf("unit %q failed", name), Brown)
}

// invokeHooks runs the registered cycle hooks in order, each with panic
// recovery. A panicking hook is logged and skipped; it cannot take down the
// publishing unit's loop.
func (b *Bar) invokeHooks(result CycleResult) {
	for _, hook := range b.cycleHooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("cycle hook panicked",
						"panic", r,
						"unit", result.Unit,
					)
				}
			}()
			hook(result)
		}()
	}
}

// UnitNames returns the resolved unit names in declaration order.
func (b *Bar) UnitNames() []string {
	names := make([]string, len(b.registrations))
	for i, reg := range b.registrations {
		names[i] = reg.name
	}
	return names
}

// MinInterval returns the configured line-writer cadence.
func (b *Bar) MinInterval() time.Duration {
	return b.minInterval
}

// Padding returns the configured per-element space padding.
func (b *Bar) Padding() int {
	return b.padding
}
