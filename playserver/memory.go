package playserver

import (
	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryProber reports host memory usage in percent. The play loop treats
// crossing Config.MemoryPercentLimit as fatal: an ever-growing frame
// backlog is the usual culprit and retrying would only dig deeper.
type MemoryProber func() (float64, error)

func VirtualMemoryPercent() (float64, error) {
	stat, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return stat.UsedPercent, nil
}
