package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ninebar/ninebar/internal/click"
	"github.com/ninebar/ninebar/internal/snapshot"
	"github.com/ninebar/ninebar/internal/wire"
)

// Task is one unit's scheduling identity, decoupled from the public Unit
// type to keep this package free of the root package's API.
type Task struct {
	// Name is the unit's resolved, unique name.
	Name string

	// Interval is the target time between cycles.
	Interval time.Duration

	// Timeout bounds one Cycle invocation. A deadline overrun surfaces as
	// an ordinary cycle error, never as an engine-wide stall.
	Timeout time.Duration

	// Cycle runs one read-format-serialize pass and returns the encoded
	// element, or "" to suppress the unit this round.
	Cycle func(ctx context.Context) (string, error)

	// Fail renders the failure element published when Cycle returns an
	// error or panics.
	Fail func(err error) string

	// HandleClick delivers a click event to the unit. Runs on the click
	// router's goroutine, always before the wakeup it triggers.
	HandleClick func(ev click.Event)

	// Loading is the placeholder element seeded before the first cycle.
	Loading string
}

// Scheduler runs every task's cycle loop on its own goroutine, aggregates
// the latest element per task into the snapshot table, and writes the
// combined line at a fixed minimum interval.
//
// The line cadence is independent of every unit cadence: a unit publishing
// faster than the writer has publications coalesced, and a clicked unit
// recomputes early without forcing a line flush.
type Scheduler struct {
	tasks       []*taskState
	byName      map[string]*taskState
	table       *snapshot.Table
	writer      *wire.Writer
	minInterval time.Duration
	logger      *slog.Logger
}

// taskState pairs a task with its wakeup channel. The channel is buffered
// so a click arriving mid-cycle is remembered and consumed by the next
// cadence wait rather than lost.
type taskState struct {
	task Task
	wake chan struct{}
}

// New creates a Scheduler over the given tasks.
//
// Parameters:
//   - tasks: one per unit, in bar declaration order
//   - table: the output snapshot the line writer reads
//   - writer: the framed output stream (header already written by the caller)
//   - minInterval: line-writer cadence
//   - logger: sink for failure diagnostics
func New(tasks []Task, table *snapshot.Table, writer *wire.Writer, minInterval time.Duration, logger *slog.Logger) *Scheduler {
	s := &Scheduler{
		table:       table,
		writer:      writer,
		minInterval: minInterval,
		logger:      logger,
		byName:      make(map[string]*taskState, len(tasks)),
	}
	for _, t := range tasks {
		st := &taskState{task: t, wake: make(chan struct{}, 1)}
		s.tasks = append(s.tasks, st)
		s.byName[t.Name] = st
	}
	return s
}

// Run blocks until ctx is cancelled or the output stream fails.
//
// Each task loop runs its first cycle immediately, then waits out its
// interval or an earlier wakeup. A failed output write ends the run: the
// only consumer of the line has gone away.
func (s *Scheduler) Run(ctx context.Context) error {
	for _, st := range s.tasks {
		s.table.Set(st.task.Name, st.task.Loading)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, st := range s.tasks {
		st := st
		g.Go(func() error {
			s.runUnit(gctx, st)
			return nil
		})
	}
	g.Go(func() error {
		return s.writeLines(gctx)
	})
	return g.Wait()
}

// Dispatch routes a click event to the task it names: the handler runs
// synchronously, then the task's wakeup is signalled, in that order, so the
// handler's effects are visible to the cycle the wakeup triggers. Reports
// whether the name matched a task.
func (s *Scheduler) Dispatch(ev click.Event) bool {
	st, ok := s.byName[ev.Name]
	if !ok {
		return false
	}

	s.invokeClickSafe(st.task, ev)

	select {
	case st.wake <- struct{}{}:
	default:
		// a wakeup is already pending; coalescing clicks is fine
	}
	return true
}

// runUnit is one task's scheduling loop: cycle, then sleep until the
// interval elapses or a wakeup arrives, whichever is first.
func (s *Scheduler) runUnit(ctx context.Context, st *taskState) {
	timer := time.NewTimer(st.task.Interval)
	defer timer.Stop()

	for {
		s.runCycle(ctx, st.task)
		if ctx.Err() != nil {
			return
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(st.task.Interval)

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-st.wake:
		}
	}
}

// runCycle executes one bounded cycle and publishes its outcome. Errors and
// panics are absorbed here: the task publishes its failure element and the
// loop carries on, so a unit that fails once may succeed on its next
// cadence.
func (s *Scheduler) runCycle(ctx context.Context, t Task) {
	cctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	element, err := s.invokeCycleSafe(cctx, t)
	if err != nil {
		if ctx.Err() != nil {
			// shutdown, not a unit failure; leave the last element standing
			return
		}
		s.logger.Warn("unit cycle failed", "unit", t.Name, "error", err)
		element = t.Fail(err)
	}
	s.table.Set(t.Name, element)
}

// invokeCycleSafe calls the task cycle with panic recovery. A panicking
// unit is indistinguishable from an erroring one downstream; the full stack
// is logged with a correlation ID for operator diagnosis.
func (s *Scheduler) invokeCycleSafe(ctx context.Context, t Task) (element string, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			s.logger.Error("unit cycle panic",
				"unit", t.Name,
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			element = ""
			err = fmt.Errorf("unit panic (correlation_id: %s)", correlationID)
		}
	}()
	return t.Cycle(ctx)
}

// invokeClickSafe calls the task's click handler with panic recovery.
func (s *Scheduler) invokeClickSafe(t Task, ev click.Event) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			s.logger.Error("click handler panic",
				"unit", t.Name,
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	if t.HandleClick != nil {
		t.HandleClick(ev)
	}
}

// writeLines is the line-writer loop: at every tick it snapshots the table
// and emits one aggregated line.
func (s *Scheduler) writeLines(ctx context.Context) error {
	ticker := time.NewTicker(s.minInterval)
	defer ticker.Stop()

	for {
		if err := s.writer.WriteLine(s.table.Elements()); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
