package units

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/ninebar/ninebar"
)

// batColorScale grades remaining charge; high is good, so the scale is
// reversed against the breakpoints 25/50/75.
var batBreakpoints = []float64{25, 50, 75}

// Battery displays charge state for one battery from the kernel's
// power-supply class. A click toggles between the charge fraction relative
// to the battery's current full capacity and relative to its design
// capacity (how worn the cell is).
//
// Readings:
//
//	f_charge_pct         (float)  charge, percent of current full capacity
//	f_charge_design_pct  (float)  charge, percent of design capacity
//	s_status             (string) kernel status: Charging, Discharging, Full, ...
//	f_rem_s              (float)  estimated seconds to full/empty
//	b_err_no_rem         (bool)   no usable rate, remaining time unknown
//	b_err_no_bat         (bool)   the battery is not present
//	b_show_design        (bool)   the design-capacity view is active
type Battery struct {
	id         int
	rateEWMA   float64
	showDesign atomic.Bool
}

// NewBattery creates a Battery unit for /sys/class/power_supply/BAT<id>.
func NewBattery(id int) *Battery {
	return &Battery{id: id}
}

// ueventPath returns the battery's uevent file path.
func (b *Battery) ueventPath() string {
	return fmt.Sprintf("/sys/class/power_supply/BAT%d/uevent", b.id)
}

// Read parses the battery uevent file. An absent battery raises
// b_err_no_bat; desktops without one should not render a failure marker.
func (b *Battery) Read(ctx context.Context) (ninebar.Readings, error) {
	raw, err := os.ReadFile(b.ueventPath())
	if err != nil {
		if os.IsNotExist(err) {
			return ninebar.Readings{"b_err_no_bat": true}, nil
		}
		return nil, err
	}

	fields := parseUevent(string(raw))
	r := ninebar.Readings{"b_show_design": b.showDesign.Load()}

	// energy_* on most systems, charge_* on some firmwares
	now, okNow := ueventFloat(fields, "ENERGY_NOW", "CHARGE_NOW")
	full, okFull := ueventFloat(fields, "ENERGY_FULL", "CHARGE_FULL")
	design, okDesign := ueventFloat(fields, "ENERGY_FULL_DESIGN", "CHARGE_FULL_DESIGN")
	rate, okRate := ueventFloat(fields, "POWER_NOW", "CURRENT_NOW")

	if !okNow || !okFull || full == 0 {
		return ninebar.Readings{"b_err_no_bat": true}, nil
	}

	r["f_charge_pct"] = 100 * now / full
	if okDesign && design > 0 {
		r["f_charge_design_pct"] = 100 * now / design
	} else {
		r["f_charge_design_pct"] = 100 * now / full
	}

	status := fields["STATUS"]
	r["s_status"] = status

	// smooth the instantaneous rate; uevent readings jitter heavily
	if okRate && rate > 0 {
		if b.rateEWMA == 0 {
			b.rateEWMA = rate
		} else {
			b.rateEWMA = 0.75*b.rateEWMA + 0.25*rate
		}
	}

	switch {
	case b.rateEWMA <= 0:
		r["b_err_no_rem"] = true
	case status == "Discharging":
		r["f_rem_s"] = 3600 * now / b.rateEWMA
	case status == "Charging":
		r["f_rem_s"] = 3600 * (full - now) / b.rateEWMA
	default:
		r["b_err_no_rem"] = true
	}

	return r, nil
}

// Format renders "bat [NN%] [status rem]". The design-capacity view tags
// the percentage so the two modes are distinguishable at a glance.
func (b *Battery) Format(r ninebar.Readings) (string, bool) {
	if r.Flag("b_err_no_bat") {
		return "bat " + ninebar.Colorize("no battery", ninebar.Grey), true
	}

	pct := r.Float("f_charge_pct")
	label := ""
	if r.Flag("b_show_design") {
		pct = r.Float("f_charge_design_pct")
		label = "dsgn "
	}
	pctStr := ninebar.Colorize(
		fmt.Sprintf("%3.0f%%", pct),
		ninebar.GradeColor(pct, batBreakpoints, []string{
			ninebar.Red, ninebar.Orange, ninebar.Yellow, ninebar.Green,
		}, false),
	)

	var state string
	switch r.String("s_status") {
	case "Charging":
		state = ninebar.Colorize("chr", ninebar.Green)
	case "Discharging":
		state = ninebar.Colorize("dis", ninebar.Orange)
	case "Full":
		state = ninebar.Colorize("ful", ninebar.Blue)
	default:
		state = ninebar.Colorize("bal", ninebar.Grey)
	}

	rem := "--:--"
	if !r.Flag("b_err_no_rem") {
		rem = ninebar.FormatDuration(r.Float("f_rem_s"))
	}

	return fmt.Sprintf("bat [%s%s] [%s %s]", label, pctStr, state, rem), true
}

// HandleClick toggles the design-capacity view.
func (b *Battery) HandleClick(click ninebar.Click, style *ninebar.Style) {
	b.showDesign.Store(!b.showDesign.Load())
}

// parseUevent splits KEY=value lines, stripping the POWER_SUPPLY_ prefix.
func parseUevent(raw string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[strings.TrimPrefix(key, "POWER_SUPPLY_")] = strings.TrimSpace(value)
	}
	return fields
}

// ueventFloat returns the first of the named fields parseable as a float.
func ueventFloat(fields map[string]string, names ...string) (float64, bool) {
	for _, name := range names {
		if raw, ok := fields[name]; ok {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}
