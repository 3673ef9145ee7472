package metrics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v4/process"

	"gitlab.com/tinyland/lab/host-pulse/internal/format"
)

// RankBy selects the sort key for a process ranking.
type RankBy int

const (
	// RankByCPU orders processes by CPU utilisation.
	RankByCPU RankBy = iota
	// RankByMemory orders processes by memory share.
	RankByMemory
)

// String returns the ranking key name.
func (r RankBy) String() string {
	switch r {
	case RankByCPU:
		return "cpu"
	case RankByMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// maxCommandWidth is the display width limit for the command column.
const maxCommandWidth = 50

// TopProcesses returns the n processes with the highest CPU or memory
// usage. Processes that disappear mid-scan are skipped.
func TopProcesses(ctx context.Context, by RankBy, n int) ([]ProcessRecord, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	records := make([]ProcessRecord, 0, len(procs))
	for _, p := range procs {
		cpuPct, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			// Process exited between listing and inspection.
			continue
		}
		memPct, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}

		user, err := p.UsernameWithContext(ctx)
		if err != nil || user == "" {
			user = "?"
		}

		cmd, err := p.CmdlineWithContext(ctx)
		if err != nil || cmd == "" {
			if name, nerr := p.NameWithContext(ctx); nerr == nil {
				cmd = name
			}
		}

		records = append(records, ProcessRecord{
			User:       user,
			PID:        p.Pid,
			CPUPercent: cpuPct,
			MemPercent: float64(memPct),
			Command:    format.TruncateWithEllipsis(cmd, maxCommandWidth),
		})
	}

	return rankRecords(records, by, n), nil
}

// rankRecords sorts records descending by the chosen key and returns the
// first n. Ties keep their input order.
func rankRecords(records []ProcessRecord, by RankBy, n int) []ProcessRecord {
	sort.SliceStable(records, func(i, j int) bool {
		if by == RankByMemory {
			return records[i].MemPercent > records[j].MemPercent
		}
		return records[i].CPUPercent > records[j].CPUPercent
	})

	if n < 0 {
		n = 0
	}
	if n > len(records) {
		n = len(records)
	}
	return records[:n]
}
