// Package metrics samples host resource usage and ranks processes.
package metrics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// MaxHistorySamples is the number of samples retained for sparklines.
const MaxHistorySamples = 120

// Sampler collects host resource samples. CPU utilisation is computed
// from the delta between consecutive readings, so the first Collect
// after construction reports 0 for CPU.
type Sampler struct {
	diskPath string
	logger   *slog.Logger

	mu      sync.Mutex
	prev    cpu.TimesStat
	hasPrev bool
	history []Sample

	// Injectable for tests.
	cpuTimes      func(ctx context.Context) ([]cpu.TimesStat, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	diskUsage     func(ctx context.Context, path string) (*disk.UsageStat, error)
	loadAvg       func(ctx context.Context) (*load.AvgStat, error)
}

// NewSampler creates a Sampler monitoring the filesystem mounted at diskPath.
func NewSampler(diskPath string, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sampler{
		diskPath: diskPath,
		logger:   logger,
		cpuTimes: func(ctx context.Context) ([]cpu.TimesStat, error) {
			return cpu.TimesWithContext(ctx, false)
		},
		virtualMemory: mem.VirtualMemoryWithContext,
		diskUsage:     disk.UsageWithContext,
		loadAvg:       load.AvgWithContext,
	}
}

// Collect takes one sample. It never fails: a sub-collector error leaves
// the corresponding field at zero and is reported as a warning.
func (s *Sampler) Collect(ctx context.Context) (Sample, []string) {
	sample := Sample{Timestamp: time.Now()}
	var warnings []string

	if pct, err := s.collectCPU(ctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("cpu: %v", err))
	} else {
		sample.CPUPercent = pct
	}

	if vm, err := s.virtualMemory(ctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("memory: %v", err))
	} else {
		sample.MemoryPercent = clampPercent(vm.UsedPercent)
	}

	if du, err := s.diskUsage(ctx, s.diskPath); err != nil {
		warnings = append(warnings, fmt.Sprintf("disk %s: %v", s.diskPath, err))
	} else {
		sample.DiskPercent = clampPercent(du.UsedPercent)
	}

	if avg, err := s.loadAvg(ctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("load: %v", err))
	} else {
		sample.Load1 = avg.Load1
		sample.Load5 = avg.Load5
		sample.Load15 = avg.Load15
	}

	s.mu.Lock()
	s.history = appendAndTrim(s.history, sample, MaxHistorySamples)
	s.mu.Unlock()

	for _, w := range warnings {
		s.logger.Warn("sampler warning", "warning", w)
	}

	return sample, warnings
}

// collectCPU computes utilisation from the delta against the previous
// reading. The first call seeds the baseline and reports 0.
func (s *Sampler) collectCPU(ctx context.Context) (float64, error) {
	times, err := s.cpuTimes(ctx)
	if err != nil {
		return 0, err
	}
	if len(times) == 0 {
		return 0, fmt.Errorf("no cpu times reported")
	}
	cur := times[0]

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasPrev {
		s.prev = cur
		s.hasPrev = true
		return 0, nil
	}

	deltaTotal := cpuTotal(cur) - cpuTotal(s.prev)
	deltaBusy := cpuBusy(cur) - cpuBusy(s.prev)
	s.prev = cur

	if deltaTotal <= 0 {
		return 0, nil
	}
	return clampPercent(deltaBusy / deltaTotal * 100), nil
}

// History returns a copy of the retained samples, oldest first.
func (s *Sampler) History() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sample, len(s.history))
	copy(out, s.history)
	return out
}

// cpuTotal sums all accounted CPU time. Guest time is excluded because
// the kernel already includes it in user time.
func cpuTotal(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
}

// cpuBusy is total time minus idle and iowait.
func cpuBusy(t cpu.TimesStat) float64 {
	return cpuTotal(t) - t.Idle - t.Iowait
}

// clampPercent confines a value to [0, 100]. NaN clamps to 0.
func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// appendAndTrim appends a sample and drops the oldest entries beyond max.
func appendAndTrim(history []Sample, s Sample, max int) []Sample {
	history = append(history, s)
	if len(history) > max {
		history = history[len(history)-max:]
	}
	return history
}
