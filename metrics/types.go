package metrics

import (
	"fmt"
	"time"
)

// Sample is one host resource reading. Percent fields are always within
// [0, 100]; a failed sub-collector leaves its field at the zero value.
type Sample struct {
	// Timestamp is when the sample was taken.
	Timestamp time.Time `json:"timestamp"`
	// CPUPercent is the host CPU utilisation since the previous sample.
	CPUPercent float64 `json:"cpu_percent"`
	// MemoryPercent is the used fraction of physical memory.
	MemoryPercent float64 `json:"memory_percent"`
	// Load1, Load5 and Load15 are the standard load averages.
	Load1  float64 `json:"load1"`
	Load5  float64 `json:"load5"`
	Load15 float64 `json:"load15"`
	// DiskPercent is the used fraction of the monitored filesystem.
	DiskPercent float64 `json:"disk_percent"`
}

// LoadAverage renders the three load averages as a display string,
// e.g. "0.42 0.38 0.35".
func (s Sample) LoadAverage() string {
	return fmt.Sprintf("%.2f %.2f %.2f", s.Load1, s.Load5, s.Load15)
}

// String renders the sample as a one-line monitor record body.
func (s Sample) String() string {
	return fmt.Sprintf("CPU: %.1f%% | MEM: %.1f%% | DISK: %.1f%% | LOAD: %s",
		s.CPUPercent, s.MemoryPercent, s.DiskPercent, s.LoadAverage())
}

// ProcessRecord describes one process in a top-N ranking.
type ProcessRecord struct {
	// User is the owning username, or "?" when lookup fails.
	User string `json:"user"`
	// PID is the process ID.
	PID int32 `json:"pid"`
	// CPUPercent is the process CPU utilisation.
	CPUPercent float64 `json:"cpu_percent"`
	// MemPercent is the process share of physical memory.
	MemPercent float64 `json:"mem_percent"`
	// Command is the command line, truncated for display.
	Command string `json:"command"`
}

// String renders the record as one line of an alert block.
func (p ProcessRecord) String() string {
	return fmt.Sprintf("%-10s %6d %6.1f%% %6.1f%%  %s",
		p.User, p.PID, p.CPUPercent, p.MemPercent, p.Command)
}
