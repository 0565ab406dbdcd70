package units

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/ninebar/ninebar"
)

// thermalGlob matches the kernel's thermal zone temperature files.
const thermalGlob = "/sys/class/thermal/thermal_zone*/temp"

// CPU displays processor utilisation from /proc-style CPU time deltas,
// plus the average package temperature when thermal zones are readable.
// A click toggles between aggregate load and a user/kernel breakdown.
//
// Readings:
//
//	f_user_pct        (float) time share spent in userland since last cycle
//	f_kernel_pct      (float) time share spent in the kernel since last cycle
//	f_temp_c          (float) average thermal zone temperature
//	b_err_loading     (bool)  first cycle, no delta to report yet
//	b_err_no_temp     (bool)  no readable thermal zone
//	b_show_breakdown  (bool)  the user/kernel breakdown view is active
type CPU struct {
	prevTotal     float64
	prevUser      float64
	prevKernel    float64
	havePrev      bool
	showBreakdown atomic.Bool
}

// NewCPU creates a CPU unit.
func NewCPU() *CPU {
	return &CPU{}
}

// Read samples aggregate CPU times and computes the share of the elapsed
// interval spent in user and kernel mode. The first cycle reports a loading
// flag since no interval exists yet.
func (c *CPU) Read(ctx context.Context) (ninebar.Readings, error) {
	stats, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("no aggregate cpu times reported")
	}
	ts := stats[0]

	total := ts.User + ts.Nice + ts.System + ts.Idle + ts.Iowait +
		ts.Irq + ts.Softirq + ts.Steal
	user := ts.User + ts.Nice
	kernel := ts.System + ts.Irq + ts.Softirq

	r := ninebar.Readings{"b_show_breakdown": c.showBreakdown.Load()}

	if !c.havePrev || total <= c.prevTotal {
		c.prevTotal, c.prevUser, c.prevKernel = total, user, kernel
		c.havePrev = true
		r["b_err_loading"] = true
		c.readTemp(r)
		return r, nil
	}

	dt := total - c.prevTotal
	r["f_user_pct"] = 100 * (user - c.prevUser) / dt
	r["f_kernel_pct"] = 100 * (kernel - c.prevKernel) / dt
	c.prevTotal, c.prevUser, c.prevKernel = total, user, kernel

	c.readTemp(r)
	return r, nil
}

// readTemp averages the readable thermal zones into f_temp_c, or raises
// b_err_no_temp when none are readable.
func (c *CPU) readTemp(r ninebar.Readings) {
	paths, _ := filepath.Glob(thermalGlob)

	var sum float64
	var n int
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
		if err != nil {
			continue
		}
		sum += milli / 1000
		n++
	}

	if n == 0 {
		r["b_err_no_temp"] = true
		return
	}
	r["f_temp_c"] = sum / float64(n)
}

// Format renders "cpu [...] [temp]"; the load section depends on the
// breakdown toggle.
func (c *CPU) Format(r ninebar.Readings) (string, bool) {
	var loadPart string
	switch {
	case r.Flag("b_err_loading"):
		loadPart = ninebar.Colorize("loading", ninebar.Violet)
	case r.Flag("b_show_breakdown"):
		loadPart = fmt.Sprintf("u %s%% k %s%%",
			ninebar.ColorizeFloat(r.Float("f_user_pct"), 3, 0, []float64{20, 40, 60, 80}),
			ninebar.ColorizeFloat(r.Float("f_kernel_pct"), 3, 0, []float64{20, 40, 60, 80}),
		)
	default:
		loadPart = ninebar.ColorizeFloat(
			r.Float("f_user_pct")+r.Float("f_kernel_pct"), 3, 0,
			[]float64{20, 40, 60, 80},
		) + "%"
	}

	tempPart := ninebar.Colorize("n/a", ninebar.Grey)
	if !r.Flag("b_err_no_temp") {
		tempPart = ninebar.TempColor(r.Float("f_temp_c")) + "C"
	}

	return fmt.Sprintf("cpu [%s] [%s]", loadPart, tempPart), true
}

// HandleClick toggles the user/kernel breakdown view.
func (c *CPU) HandleClick(click ninebar.Click, style *ninebar.Style) {
	c.showBreakdown.Store(!c.showBreakdown.Load())
}
