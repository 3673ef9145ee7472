// Package alerting evaluates resource samples against configured thresholds.
package alerting

import (
	"fmt"
	"time"

	"gitlab.com/tinyland/lab/host-pulse/metrics"
)

// Kind identifies which resource breached its threshold.
type Kind int

const (
	// KindCPUHigh indicates CPU usage above the CPU threshold.
	KindCPUHigh Kind = iota
	// KindMemoryHigh indicates memory usage above the memory threshold.
	KindMemoryHigh
	// KindDiskHigh indicates disk usage above the disk threshold.
	KindDiskHigh
)

// String returns the resource name for the alert kind.
func (k Kind) String() string {
	switch k {
	case KindCPUHigh:
		return "CPU"
	case KindMemoryHigh:
		return "MEMORY"
	case KindDiskHigh:
		return "DISK"
	default:
		return "UNKNOWN"
	}
}

// RankKey returns the process ranking key matching the alert kind.
// Disk breaches rank by memory since disk usage has no per-process share.
func (k Kind) RankKey() metrics.RankBy {
	if k == KindCPUHigh {
		return metrics.RankByCPU
	}
	return metrics.RankByMemory
}

// Thresholds holds the breach boundaries for evaluation.
// A zero DiskPercent disables disk alerting.
type Thresholds struct {
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   float64
}

// Alert is one threshold breach at a point in time.
type Alert struct {
	Kind      Kind      `json:"kind"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Time      time.Time `json:"time"`
}

// Message renders the alert headline, e.g.
// "HIGH CPU USAGE: 93.2% (threshold: 90.0%)".
func (a Alert) Message() string {
	return fmt.Sprintf("HIGH %s USAGE: %.1f%% (threshold: %.1f%%)", a.Kind, a.Value, a.Threshold)
}

// Evaluate compares a sample against thresholds and returns one alert per
// breached resource. Comparison is strictly greater than: a value equal to
// its threshold is not a breach. Each call is independent; there is no
// hysteresis between ticks.
func Evaluate(s metrics.Sample, t Thresholds) []Alert {
	var alerts []Alert

	if s.CPUPercent > t.CPUPercent {
		alerts = append(alerts, Alert{
			Kind:      KindCPUHigh,
			Value:     s.CPUPercent,
			Threshold: t.CPUPercent,
			Time:      s.Timestamp,
		})
	}

	if s.MemoryPercent > t.MemoryPercent {
		alerts = append(alerts, Alert{
			Kind:      KindMemoryHigh,
			Value:     s.MemoryPercent,
			Threshold: t.MemoryPercent,
			Time:      s.Timestamp,
		})
	}

	if t.DiskPercent > 0 && s.DiskPercent > t.DiskPercent {
		alerts = append(alerts, Alert{
			Kind:      KindDiskHigh,
			Value:     s.DiskPercent,
			Threshold: t.DiskPercent,
			Time:      s.Timestamp,
		})
	}

	return alerts
}
