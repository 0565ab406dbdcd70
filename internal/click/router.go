package click

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Dispatcher delivers a decoded event to the unit it names. It reports
// whether the name matched a registered unit; a false return is a skip, not
// an error (the host may reference stale names).
type Dispatcher func(ev Event) bool

// Router drains the click stream, decoding one object at a time and handing
// each to the dispatcher.
//
// Per the error taxonomy, nothing the host writes can stop the router:
// malformed fragments, partial objects, and unknown unit names are all
// discarded silently (logged at debug level for operator diagnosis) and the
// read loop continues. The router exits only when the stream ends or the
// context is cancelled.
type Router struct {
	scanner  *Scanner
	dispatch Dispatcher
	logger   *slog.Logger
}

// NewRouter creates a Router reading from in and dispatching via dispatch.
func NewRouter(in io.Reader, dispatch Dispatcher, logger *slog.Logger) *Router {
	return &Router{
		scanner:  NewScanner(in),
		dispatch: dispatch,
		logger:   logger,
	}
}

// Run processes events until the stream ends or ctx is cancelled. The
// underlying read is blocking; callers that need prompt cancellation close
// the input stream when tearing down.
func (r *Router) Run(ctx context.Context) {
	for {
		raw, err := r.scanner.Next()
		if err != nil {
			// EOF, closed pipe, or any other terminal read failure: the
			// host has gone away, so the router's work is done.
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				r.logger.Debug("click stream closed", "error", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		ev, err := decodeEvent(raw)
		if err != nil {
			r.logger.Debug("discarding malformed click", "error", err)
			continue
		}

		if !r.dispatch(ev) {
			r.logger.Debug("discarding click for unknown unit", "name", ev.Name)
		}
	}
}
