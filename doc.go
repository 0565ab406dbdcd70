// Package ninebar provides a concurrent status-line generator for the
// i3bar protocol.
//
// ninebar is designed as an SDK-first library: the status line is assembled
// from independently scheduled units, each a small producer of one chunk of
// bar content. The engine polls every unit on its own cadence, merges the
// latest output of each into a single JSON status line, and routes click
// events from the bar back to the unit they landed on. A failing unit
// degrades to an inline error marker; it never takes the line down with it.
//
// # Quick Start
//
// Create units and run the bar until interrupted:
//
//	bar, _ := ninebar.New(
//	    ninebar.WithUnit(units.NewMemory()),
//	    ninebar.WithUnit(units.NewTime(), ninebar.WithInterval(time.Second)),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	bar.Run(ctx) // blocks until context is cancelled
//
// # Units
//
// A unit implements the [Unit] interface: an asynchronous Read that gathers
// raw readings, and a pure Format that renders them. Units that want to
// react to clicks additionally implement [ClickHandler]; all others get a
// one-cycle border highlight for free.
//
//	type Unit interface {
//	    Read(ctx context.Context) (Readings, error)
//	    Format(r Readings) (string, bool)
//	}
//
// Format returning false suppresses the unit's element for that round; the
// emitted line simply omits it.
//
// # Configuration
//
// ninebar uses the functional options pattern for configuration:
//
//	bar, err := ninebar.New(
//	    ninebar.WithUnit(units.NewCPU(), ninebar.WithName("cpu"), ninebar.WithInterval(500*time.Millisecond)),
//	    ninebar.WithUnit(units.NewWifi("wlan0"), ninebar.WithRequires("iwgetid")),
//	    ninebar.WithMinInterval(250*time.Millisecond),
//	    ninebar.WithPadding(1),
//	)
//
// A unit that declares required executables via [WithRequires] is checked
// once at construction; if any executable is missing the unit is replaced
// with a static "not found" chunk for the life of the process.
//
// # Architecture
//
// ninebar consists of several internal packages (under internal/):
//
//   - internal/engine: per-unit scheduling loops, failure isolation, line cadence
//   - internal/snapshot: latest-chunk-per-unit table read by the line writer
//   - internal/wire: i3bar JSON framing and element serialization
//   - internal/click: incremental stdin click-stream scanner and dispatcher
//
// The internal packages are not part of the public API and may change
// without notice.
package ninebar
