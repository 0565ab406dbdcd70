package units

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ninebar/ninebar"
)

// Wifi displays the connected SSID and link quality for one wireless
// interface.
//
// The SSID comes from the iwgetid executable; register this unit with
// ninebar.WithRequires("iwgetid") so a system without wireless tooling
// degrades to a static chunk instead of failing every cycle. Link quality
// is read from /proc/net/wireless.
//
// Readings:
//
//	s_ssid          (string) connected network name
//	f_quality_pct   (float)  link quality, percent
//	b_err_no_conn   (bool)   the interface is not associated
//	b_err_no_qual   (bool)   link quality could not be read
type Wifi struct {
	iface string
}

// NewWifi creates a Wifi unit for the given wireless interface, e.g.
// "wlan0".
func NewWifi(iface string) *Wifi {
	return &Wifi{iface: iface}
}

// Read queries the SSID via iwgetid and the link quality from procfs. The
// subprocess inherits the cycle deadline through CommandContext, so a hung
// tool surfaces as an ordinary cycle failure.
func (w *Wifi) Read(ctx context.Context) (ninebar.Readings, error) {
	out, err := exec.CommandContext(ctx, "iwgetid", "-r", w.iface).Output()
	if err != nil || len(strings.TrimSpace(string(out))) == 0 {
		// iwgetid exits nonzero when unassociated; that is a state, not a
		// failure
		return ninebar.Readings{"b_err_no_conn": true}, nil
	}

	r := ninebar.Readings{"s_ssid": strings.TrimSpace(string(out))}

	quality, ok := w.readQuality()
	if !ok {
		r["b_err_no_qual"] = true
	} else {
		r["f_quality_pct"] = quality
	}
	return r, nil
}

// readQuality parses the interface's line of /proc/net/wireless. The
// quality column is conventionally out of 70.
func (w *Wifi) readQuality() (float64, bool) {
	f, err := os.Open("/proc/net/wireless")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, w.iface+":") {
			continue
		}
		cols := strings.Fields(line)
		if len(cols) < 3 {
			return 0, false
		}
		link, err := strconv.ParseFloat(strings.TrimSuffix(cols[2], "."), 64)
		if err != nil {
			return 0, false
		}
		return 100 * link / 70, true
	}
	return 0, false
}

// Format renders "<iface> [ssid quality%]", or the disassociated state.
func (w *Wifi) Format(r ninebar.Readings) (string, bool) {
	if r.Flag("b_err_no_conn") {
		return w.iface + " " + ninebar.Colorize("disconnected", ninebar.Grey), true
	}

	ssid := ninebar.Colorize(r.String("s_ssid"), ninebar.Cyan)
	if r.Flag("b_err_no_qual") {
		return w.iface + " [" + ssid + "]", true
	}

	quality := r.Float("f_quality_pct")
	qualStr := ninebar.Colorize(
		strconv.FormatFloat(quality, 'f', 0, 64)+"%",
		ninebar.GradeColor(quality, []float64{25, 50, 75}, []string{
			ninebar.Red, ninebar.Orange, ninebar.Yellow, ninebar.Green,
		}, false),
	)
	return w.iface + " [" + ssid + " " + qualStr + "]", true
}
