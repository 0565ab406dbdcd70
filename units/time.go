package units

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"

	"github.com/ninebar/ninebar"
)

// defaultTimeLayout is the clock format shown by default.
const defaultTimeLayout = "Mon Jan 02 2006 - 15:04"

// Time displays the current time; a click toggles an uptime and
// load-average view.
//
// Readings:
//
//	s_time          (string) formatted current time
//	f_uptime_s      (float)  system uptime, seconds
//	f_load_1        (float)  one-minute load average
//	f_load_5        (float)  five-minute load average
//	f_load_15       (float)  fifteen-minute load average
//	b_err_no_load   (bool)   load averages could not be read
//	b_show_uptime   (bool)   the uptime view is active
type Time struct {
	layout     string
	loadScale  []float64
	showUptime atomic.Bool
}

// NewTime creates a Time unit with the given clock layout (Go reference
// time format). An empty layout selects the default.
func NewTime(layout string) *Time {
	if layout == "" {
		layout = defaultTimeLayout
	}
	n := float64(runtime.NumCPU())
	return &Time{
		layout:    layout,
		loadScale: []float64{0.1 * n, 0.25 * n, 0.5 * n, 0.75 * n},
	}
}

// Read gathers the clock reading, and uptime plus load averages when the
// uptime view is active.
func (t *Time) Read(ctx context.Context) (ninebar.Readings, error) {
	r := ninebar.Readings{
		"s_time":        time.Now().Format(t.layout),
		"b_show_uptime": t.showUptime.Load(),
	}
	if !t.showUptime.Load() {
		return r, nil
	}

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return nil, err
	}
	r["f_uptime_s"] = float64(uptime)

	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		r["b_err_no_load"] = true
		return r, nil
	}
	r["f_load_1"] = avg.Load1
	r["f_load_5"] = avg.Load5
	r["f_load_15"] = avg.Load15
	return r, nil
}

// Format renders either the clock or the uptime view.
func (t *Time) Format(r ninebar.Readings) (string, bool) {
	if !r.Flag("b_show_uptime") {
		return r.String("s_time"), true
	}

	uptime := ninebar.FormatDuration(r.Float("f_uptime_s"))
	if r.Flag("b_err_no_load") {
		return "uptime [" + uptime + "] load [" + ninebar.Colorize("n/a", ninebar.Grey) + "]", true
	}

	return "uptime [" + uptime + "] load [" +
		ninebar.ColorizeFloat(r.Float("f_load_1"), 3, 2, t.loadScale) + "/" +
		ninebar.ColorizeFloat(r.Float("f_load_5"), 3, 2, t.loadScale) + "/" +
		ninebar.ColorizeFloat(r.Float("f_load_15"), 3, 2, t.loadScale) + "]", true
}

// HandleClick toggles between the clock and uptime views.
func (t *Time) HandleClick(click ninebar.Click, style *ninebar.Style) {
	t.showUptime.Store(!t.showUptime.Load())
}
