package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// MonitorInterval is how often the process monitor samples CPU and memory.
const MonitorInterval = 15 * time.Second

// Monitor samples the server process with gopsutil and feeds the CPU and
// RSS gauges, logging a periodic snapshot at debug level.
type Monitor struct {
	metrics *Metrics
	proc    *process.Process
}

// NewMonitor creates a monitor over the current process.
func NewMonitor(m *Metrics) (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("opening own process: %w", err)
	}
	return &Monitor{metrics: m, proc: proc}, nil
}

// Run blocks, sampling every MonitorInterval until the context is canceled.
func (mo *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			mo.sample()
		}
	}
}

func (mo *Monitor) sample() {
	cpu, err := mo.proc.CPUPercent()
	if err == nil {
		mo.metrics.cpuPercent.Set(cpu)
	}

	var rss uint64
	if mem, err := mo.proc.MemoryInfo(); err == nil && mem != nil {
		rss = mem.RSS
		mo.metrics.rssBytes.Set(float64(rss))
	}

	slog.Debug("process snapshot", "cpu_percent", fmt.Sprintf("%.1f", cpu), "rss_bytes", rss)
}
