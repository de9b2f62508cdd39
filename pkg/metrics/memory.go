// Package metrics reports process resource usage between pipeline stages.
package metrics

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// Snapshot is a point-in-time view of memory usage.
type Snapshot struct {
	RSSBytes      uint64  // resident set size of this process
	HeapBytes     uint64  // live Go heap
	SystemPercent float64 // system-wide memory in use
	SystemTotalGB float64
}

// Memory samples the current process. Fields that cannot be read on this
// platform are left at zero.
func Memory() Snapshot {
	var s Snapshot

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.HeapBytes = ms.HeapAlloc

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil {
			s.RSSBytes = info.RSS
		}
	}

	if vmem, err := mem.VirtualMemory(); err == nil {
		s.SystemPercent = vmem.UsedPercent
		s.SystemTotalGB = float64(vmem.Total) / (1024 * 1024 * 1024)
	}

	return s
}

// Fields renders the snapshot for a log line.
func (s Snapshot) Fields() []zap.Field {
	return []zap.Field{
		zap.String("rss", formatMB(s.RSSBytes)),
		zap.String("heap", formatMB(s.HeapBytes)),
		zap.Float64("sys_mem_pct", s.SystemPercent),
	}
}

func formatMB(b uint64) string {
	return fmt.Sprintf("%.1fMB", float64(b)/(1024*1024))
}
