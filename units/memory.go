package units

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/ninebar/ninebar"
)

// memColorScale grades memory pressure: green to red over 50/75/90 percent.
var memColorScale = []string{ninebar.Green, ninebar.Yellow, ninebar.Orange, ninebar.Red}

// Memory displays physical memory usage.
//
// Readings:
//
//	f_used_gib  (float) used memory, GiB
//	f_used_pct  (float) used memory, percent of total
type Memory struct{}

// NewMemory creates a Memory unit.
func NewMemory() *Memory {
	return &Memory{}
}

// Read samples virtual memory statistics. Used memory counts what is
// unavailable for new allocations (total minus available), not just
// resident pages.
func (m *Memory) Read(ctx context.Context) (ninebar.Readings, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}

	used := vm.Total - vm.Available
	return ninebar.Readings{
		"f_used_gib": float64(used) / (1 << 30),
		"f_used_pct": 100 * float64(used) / float64(vm.Total),
	}, nil
}

// Format renders "mem [used X.X GiB (YY%)]" colored by pressure.
func (m *Memory) Format(r ninebar.Readings) (string, bool) {
	pct := r.Float("f_used_pct")
	col := ninebar.GradeColor(pct, []float64{50, 75, 90}, memColorScale, false)

	return fmt.Sprintf("mem [used %s GiB (%s%%)]",
		ninebar.Colorize(fmt.Sprintf("%4.1f", r.Float("f_used_gib")), col),
		ninebar.Colorize(fmt.Sprintf("%3.0f", pct), col),
	), true
}
