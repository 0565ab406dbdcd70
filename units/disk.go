package units

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/ninebar/ninebar"
)

// rateGlyphs are the activity bars, one per rate band.
var rateGlyphs = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// rateBands are the byte-per-second thresholds between glyphs: idle below
// 1 B/s, then 1 KiB/s to 4 MiB/s in factor-of-four steps.
var rateBands = []float64{
	1, 1 << 10, 1 << 12, 1 << 14, 1 << 16, 1 << 18, 1 << 20, 1 << 22,
}

// rateBar maps a transfer rate onto an activity glyph.
func rateBar(bps float64) string {
	return rateGlyphs[bandIndex(bps)]
}

// bandIndex returns the index of the band containing bps.
func bandIndex(bps float64) int {
	for i, threshold := range rateBands {
		if bps < threshold {
			return i
		}
	}
	return len(rateBands)
}

// Disk displays read/write activity for one block device.
//
// A device that does not exist is reported as self-diagnosed
// unavailability: the engine shows the unit's own message and keeps
// retrying on cadence, so a device that appears later starts reporting.
//
// Readings:
//
//	f_read_bps     (float) read throughput since last cycle, bytes/s
//	f_write_bps    (float) write throughput since last cycle, bytes/s
//	b_err_loading  (bool)  first cycle, no delta to report yet
type Disk struct {
	device    string
	prevRead  uint64
	prevWrite uint64
	prevAt    time.Time
	havePrev  bool
}

// NewDisk creates a Disk unit for the given device name as found under
// /dev, e.g. "sda" or "nvme0n1".
func NewDisk(device string) *Disk {
	return &Disk{device: device}
}

// Read samples the device's I/O counters and computes byte rates over the
// elapsed interval.
func (d *Disk) Read(ctx context.Context) (ninebar.Readings, error) {
	counters, err := disk.IOCountersWithContext(ctx, d.device)
	if err != nil {
		return nil, err
	}
	io, ok := counters[d.device]
	if !ok {
		d.havePrev = false
		return nil, ninebar.Unavailablef("no disk %s", d.device)
	}

	now := time.Now()
	r := ninebar.Readings{}

	if !d.havePrev {
		r["b_err_loading"] = true
	} else {
		dt := now.Sub(d.prevAt).Seconds()
		if dt <= 0 {
			dt = 1
		}
		r["f_read_bps"] = float64(io.ReadBytes-d.prevRead) / dt
		r["f_write_bps"] = float64(io.WriteBytes-d.prevWrite) / dt
	}

	d.prevRead, d.prevWrite, d.prevAt = io.ReadBytes, io.WriteBytes, now
	d.havePrev = true
	return r, nil
}

// Format renders "<dev> [R|W]" with activity bars for the read and write
// rates.
func (d *Disk) Format(r ninebar.Readings) (string, bool) {
	if r.Flag("b_err_loading") {
		return d.device + " [" + ninebar.Colorize("--", ninebar.Violet) + "]", true
	}

	read := ninebar.Colorize(rateBar(r.Float("f_read_bps")), ninebar.Blue)
	write := ninebar.Colorize(rateBar(r.Float("f_write_bps")), ninebar.Orange)
	return d.device + " [" + read + write + "]", true
}
