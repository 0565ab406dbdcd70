package units

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v4/net"

	"github.com/ninebar/ninebar"
)

// Net displays transfer rates for one network interface.
//
// Readings:
//
//	f_rx_bps        (float) receive rate since last cycle, bytes/s
//	f_tx_bps        (float) transmit rate since last cycle, bytes/s
//	b_err_no_iface  (bool)  the interface does not exist
//	b_err_if_down   (bool)  the interface exists but is down
//	b_err_loading   (bool)  first cycle, no delta to report yet
type Net struct {
	iface    string
	prevRx   uint64
	prevTx   uint64
	prevAt   time.Time
	havePrev bool
}

// NewNet creates a Net unit for the given interface name, e.g. "eth0" or
// "wlan0".
func NewNet(iface string) *Net {
	return &Net{iface: iface}
}

// Read samples the interface's byte counters and computes rates over the
// elapsed interval. A missing or downed interface is an error flag, not an
// error: both are expected conditions a laptop cycles through routinely.
func (n *Net) Read(ctx context.Context) (ninebar.Readings, error) {
	counters, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, err
	}

	var found *psnet.IOCountersStat
	for i := range counters {
		if counters[i].Name == n.iface {
			found = &counters[i]
			break
		}
	}
	if found == nil {
		n.havePrev = false
		return ninebar.Readings{"b_err_no_iface": true}, nil
	}

	if !n.operstateUp() {
		n.havePrev = false
		return ninebar.Readings{"b_err_if_down": true}, nil
	}

	now := time.Now()
	r := ninebar.Readings{}

	if !n.havePrev {
		r["b_err_loading"] = true
	} else {
		dt := now.Sub(n.prevAt).Seconds()
		if dt <= 0 {
			dt = 1
		}
		r["f_rx_bps"] = float64(found.BytesRecv-n.prevRx) / dt
		r["f_tx_bps"] = float64(found.BytesSent-n.prevTx) / dt
	}

	n.prevRx, n.prevTx, n.prevAt = found.BytesRecv, found.BytesSent, now
	n.havePrev = true
	return r, nil
}

// operstateUp reports whether the kernel considers the interface up.
// "unknown" counts as up: loopback and some virtual interfaces never leave
// that state.
func (n *Net) operstateUp() bool {
	raw, err := os.ReadFile("/sys/class/net/" + n.iface + "/operstate")
	if err != nil {
		return false
	}
	state := strings.TrimSpace(string(raw))
	return state == "up" || state == "unknown"
}

// Format renders "<iface> [u RATE d RATE]", or the interface's down/absent
// state.
func (n *Net) Format(r ninebar.Readings) (string, bool) {
	switch {
	case r.Flag("b_err_no_iface"):
		return n.iface + " " + ninebar.Colorize("absent", ninebar.Grey), true
	case r.Flag("b_err_if_down"):
		return n.iface + " " + ninebar.Colorize("down", ninebar.Orange), true
	case r.Flag("b_err_loading"):
		return n.iface + " [" + ninebar.Colorize("loading", ninebar.Violet) + "]", true
	}

	return fmt.Sprintf("%s [u %s d %s]",
		n.iface,
		formatRate(r.Float("f_tx_bps")),
		formatRate(r.Float("f_rx_bps")),
	), true
}

// formatRate renders a byte rate in a fixed-width human form, shading
// busier rates brighter.
func formatRate(bps float64) string {
	var text string
	switch {
	case bps >= 1<<20:
		text = fmt.Sprintf("%5.1f MiB/s", bps/(1<<20))
	case bps >= 1<<10:
		text = fmt.Sprintf("%5.1f KiB/s", bps/(1<<10))
	default:
		text = fmt.Sprintf("%5.0f   B/s", bps)
	}

	col := ninebar.GradeColor(bps, []float64{1 << 10, 1 << 15, 1 << 20, 1 << 23}, []string{
		ninebar.Grey, ninebar.LighterGrey, ninebar.White, ninebar.Cyan, ninebar.Violet,
	}, false)
	return ninebar.Colorize(text, col)
}
