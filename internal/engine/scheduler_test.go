package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ninebar/ninebar/internal/click"
	"github.com/ninebar/ninebar/internal/snapshot"
	"github.com/ninebar/ninebar/internal/wire"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// safeBuffer is a goroutine-safe output sink for the line writer.
type safeBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// staticTask builds a task that always publishes element.
func staticTask(name, element string, interval time.Duration) Task {
	return Task{
		Name:     name,
		Interval: interval,
		Timeout:  time.Second,
		Cycle: func(ctx context.Context) (string, error) {
			return element, nil
		},
		Fail: func(err error) string {
			return name + " failed"
		},
	}
}

// runScheduler drives s until cancel is called, then reports Run's error.
func runScheduler(t *testing.T, s *Scheduler) (cancel func() error) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()
	return func() error {
		stop()
		select {
		case err := <-errCh:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("Run() did not return after cancel")
			return nil
		}
	}
}

func TestScheduler_PublishesAndStops(t *testing.T) {
	table := snapshot.New([]string{"a"})
	out := &safeBuffer{}
	s := New(
		[]Task{staticTask("a", `{"name":"a"}`, 10*time.Millisecond)},
		table, wire.NewWriter(out), 10*time.Millisecond, testLogger(),
	)

	stop := runScheduler(t, s)
	time.Sleep(60 * time.Millisecond)
	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := table.Get("a"); got != `{"name":"a"}` {
		t.Errorf("table slot = %q, want the published element", got)
	}
	if !strings.Contains(out.String(), `[{"name":"a"}],`) {
		t.Errorf("output missing the aggregated line:\n%s", out.String())
	}
}

func TestScheduler_FirstCycleImmediate(t *testing.T) {
	table := snapshot.New([]string{"slow"})
	out := &safeBuffer{}
	// interval is an hour; only an immediate first cycle can publish in time
	s := New(
		[]Task{staticTask("slow", "el", time.Hour)},
		table, wire.NewWriter(out), time.Hour, testLogger(),
	)

	stop := runScheduler(t, s)
	defer func() { _ = stop() }()

	deadline := time.After(time.Second)
	for table.Get("slow") != "el" {
		select {
		case <-deadline:
			t.Fatal("first cycle did not run immediately")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestScheduler_SeedsLoadingPlaceholder(t *testing.T) {
	release := make(chan struct{})
	table := snapshot.New([]string{"a"})
	task := Task{
		Name:     "a",
		Interval: time.Hour,
		Timeout:  time.Minute,
		Loading:  "loading-element",
		Cycle: func(ctx context.Context) (string, error) {
			<-release
			return "real", nil
		},
		Fail: func(err error) string { return "failed" },
	}
	s := New([]Task{task}, table, wire.NewWriter(&safeBuffer{}), time.Hour, testLogger())

	stop := runScheduler(t, s)

	// while the first cycle is in flight the placeholder must be visible
	deadline := time.After(time.Second)
	for table.Get("a") != "loading-element" {
		select {
		case <-deadline:
			t.Fatalf("table slot = %q, want loading placeholder", table.Get("a"))
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(release)
	deadline = time.After(time.Second)
	for table.Get("a") != "real" {
		select {
		case <-deadline:
			t.Fatalf("table slot = %q, want first cycle result", table.Get("a"))
		case <-time.After(5 * time.Millisecond):
		}
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestScheduler_FailureIsolated(t *testing.T) {
	table := snapshot.New([]string{"bad", "good"})
	bad := Task{
		Name:     "bad",
		Interval: 10 * time.Millisecond,
		Timeout:  time.Second,
		Cycle: func(ctx context.Context) (string, error) {
			return "", errors.New("boom")
		},
		Fail: func(err error) string { return "bad-failed" },
	}
	good := staticTask("good", "good-el", 10*time.Millisecond)

	s := New([]Task{bad, good}, table, wire.NewWriter(&safeBuffer{}), 10*time.Millisecond, testLogger())

	stop := runScheduler(t, s)
	time.Sleep(60 * time.Millisecond)
	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := table.Get("bad"); got != "bad-failed" {
		t.Errorf("bad slot = %q, want its failure element", got)
	}
	if got := table.Get("good"); got != "good-el" {
		t.Errorf("good slot = %q, want its normal element", got)
	}
}

func TestScheduler_FailureRecovers(t *testing.T) {
	var calls atomic.Int64
	table := snapshot.New([]string{"flaky"})
	flaky := Task{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Timeout:  time.Second,
		Cycle: func(ctx context.Context) (string, error) {
			if calls.Add(1) == 1 {
				return "", errors.New("transient")
			}
			return "recovered", nil
		},
		Fail: func(err error) string { return "flaky-failed" },
	}
	s := New([]Task{flaky}, table, wire.NewWriter(&safeBuffer{}), 5*time.Millisecond, testLogger())

	stop := runScheduler(t, s)

	deadline := time.After(time.Second)
	for table.Get("flaky") != "recovered" {
		select {
		case <-deadline:
			t.Fatalf("table slot = %q, want recovery on the next cadence", table.Get("flaky"))
		case <-time.After(5 * time.Millisecond):
		}
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestScheduler_CyclePanicRecovered(t *testing.T) {
	var failErr atomic.Value
	table := snapshot.New([]string{"p"})
	task := Task{
		Name:     "p",
		Interval: time.Hour,
		Timeout:  time.Second,
		Cycle: func(ctx context.Context) (string, error) {
			panic("unit blew up")
		},
		Fail: func(err error) string {
			failErr.Store(err)
			return "p-failed"
		},
	}
	s := New([]Task{task}, table, wire.NewWriter(&safeBuffer{}), time.Hour, testLogger())

	stop := runScheduler(t, s)

	deadline := time.After(time.Second)
	for table.Get("p") != "p-failed" {
		select {
		case <-deadline:
			t.Fatalf("table slot = %q, want failure element after panic", table.Get("p"))
		case <-time.After(5 * time.Millisecond):
		}
	}
	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	err, _ := failErr.Load().(error)
	if err == nil {
		t.Fatal("Fail was not called with an error")
	}
	if !strings.Contains(err.Error(), "correlation_id") {
		t.Errorf("panic error = %q, want a correlation_id for log matching", err)
	}
}

func TestScheduler_CycleTimeout(t *testing.T) {
	var sawDeadline atomic.Bool
	table := snapshot.New([]string{"hung"})
	task := Task{
		Name:     "hung",
		Interval: time.Hour,
		Timeout:  20 * time.Millisecond,
		Cycle: func(ctx context.Context) (string, error) {
			<-ctx.Done()
			sawDeadline.Store(true)
			return "", ctx.Err()
		},
		Fail: func(err error) string { return "hung-failed" },
	}
	s := New([]Task{task}, table, wire.NewWriter(&safeBuffer{}), time.Hour, testLogger())

	stop := runScheduler(t, s)

	deadline := time.After(time.Second)
	for table.Get("hung") != "hung-failed" {
		select {
		case <-deadline:
			t.Fatalf("table slot = %q, want timeout failure element", table.Get("hung"))
		case <-time.After(5 * time.Millisecond):
		}
	}
	if err := stop(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !sawDeadline.Load() {
		t.Error("cycle context never carried a deadline")
	}
}

func TestScheduler_DispatchWakesUnit(t *testing.T) {
	var cycles atomic.Int64
	var clicked atomic.Bool
	table := snapshot.New([]string{"a"})
	task := Task{
		Name:     "a",
		Interval: time.Hour, // only a wakeup can trigger a second cycle
		Timeout:  time.Second,
		Cycle: func(ctx context.Context) (string, error) {
			cycles.Add(1)
			if clicked.Load() {
				return "after-click", nil
			}
			return "before-click", nil
		},
		Fail: func(err error) string { return "failed" },
		HandleClick: func(ev click.Event) {
			clicked.Store(true)
		},
	}
	s := New([]Task{task}, table, wire.NewWriter(&safeBuffer{}), time.Hour, testLogger())

	stop := runScheduler(t, s)
	defer func() { _ = stop() }()

	// wait out the immediate first cycle
	deadline := time.After(time.Second)
	for table.Get("a") != "before-click" {
		select {
		case <-deadline:
			t.Fatal("first cycle never published")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if !s.Dispatch(click.Event{Name: "a", Button: 1}) {
		t.Fatal("Dispatch() = false for a registered unit")
	}

	// the handler ran before the wakeup, so the woken cycle sees its effect
	deadline = time.After(time.Second)
	for table.Get("a") != "after-click" {
		select {
		case <-deadline:
			t.Fatalf("table slot = %q, want the post-click element", table.Get("a"))
		case <-time.After(5 * time.Millisecond):
		}
	}

	if n := cycles.Load(); n != 2 {
		t.Errorf("cycles = %d, want exactly 2 (initial + wakeup)", n)
	}
}

func TestScheduler_DispatchUnknownName(t *testing.T) {
	s := New(
		[]Task{staticTask("a", "el", time.Hour)},
		snapshot.New([]string{"a"}), wire.NewWriter(&safeBuffer{}), time.Hour, testLogger(),
	)

	if s.Dispatch(click.Event{Name: "ghost", Button: 1}) {
		t.Error("Dispatch() = true for an unknown name")
	}
}

func TestScheduler_ClickHandlerPanicRecovered(t *testing.T) {
	task := staticTask("a", "el", time.Hour)
	task.HandleClick = func(ev click.Event) {
		panic("handler blew up")
	}
	s := New([]Task{task}, snapshot.New([]string{"a"}), wire.NewWriter(&safeBuffer{}), time.Hour, testLogger())

	// must not propagate the panic
	if !s.Dispatch(click.Event{Name: "a", Button: 1}) {
		t.Error("Dispatch() = false, want true despite handler panic")
	}
}

func TestScheduler_OutputFailureEndsRun(t *testing.T) {
	table := snapshot.New([]string{"a"})
	s := New(
		[]Task{staticTask("a", "el", 10*time.Millisecond)},
		table, wire.NewWriter(failWriter{}), 10*time.Millisecond, testLogger(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(context.Background())
	}()

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("Run() error = nil, want output failure")
		}
	case <-time.After(2 * time.Second):
		t.Error("Run() did not return after output failure")
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}
