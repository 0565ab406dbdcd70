// Demo of the ninebar SDK: a bar built in code rather than from YAML,
// including a custom unit with a click handler.
//
// Run it from an i3 bar block:
//
//	bar {
//	  status_command /path/to/example
//	}
//
// or pipe it to a terminal to inspect the protocol stream:
//
//	./example | head -5
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ninebar/ninebar"
	"github.com/ninebar/ninebar/units"
)

// counter is a minimal custom unit: it counts its own read cycles and
// resets on click.
type counter struct {
	n     atomic.Int64
	reset atomic.Bool
}

func (c *counter) Read(ctx context.Context) (ninebar.Readings, error) {
	if c.reset.Swap(false) {
		c.n.Store(0)
	}
	return ninebar.Readings{"i_cycles": int(c.n.Add(1))}, nil
}

func (c *counter) Format(r ninebar.Readings) (string, bool) {
	n := strconv.Itoa(r.Int("i_cycles"))
	return ninebar.Colorize("cycles", ninebar.Grey) + " " +
		ninebar.Colorize(n, ninebar.Cyan), true
}

func (c *counter) HandleClick(click ninebar.Click, style *ninebar.Style) {
	c.reset.Store(true)
	// flash the border for one chunk so the click is visible
	style.SetTransient("border", ninebar.Yellow)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	bar, err := ninebar.New(
		ninebar.WithUnit(&counter{}, ninebar.WithName("demo"), ninebar.WithInterval(2*time.Second)),
		ninebar.WithUnit(units.NewCPU(), ninebar.WithInterval(500*time.Millisecond)),
		ninebar.WithUnit(units.NewMemory()),
		ninebar.WithUnit(units.NewTime(""), ninebar.WithName("clock")),
		ninebar.WithMinInterval(250*time.Millisecond),
		ninebar.WithLogger(logger),
	)
	if err != nil {
		slog.Error("failed to create bar", "error", err)
		os.Exit(1)
	}

	// graceful shutdown on Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bar.Run(ctx); err != nil {
		slog.Error("bar error", "error", err)
		os.Exit(1)
	}
}
