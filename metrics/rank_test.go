package metrics

import (
	"strings"
	"testing"
)

func rankFixture() []ProcessRecord {
	return []ProcessRecord{
		{User: "root", PID: 101, CPUPercent: 10, MemPercent: 40, Command: "init"},
		{User: "alice", PID: 102, CPUPercent: 90, MemPercent: 5, Command: "ffmpeg"},
		{User: "bob", PID: 103, CPUPercent: 5, MemPercent: 70, Command: "postgres"},
		{User: "alice", PID: 104, CPUPercent: 40, MemPercent: 90, Command: "chrome"},
		{User: "root", PID: 105, CPUPercent: 70, MemPercent: 10, Command: "kworker"},
	}
}

func TestRankRecords_ByCPUDescending(t *testing.T) {
	got := rankRecords(rankFixture(), RankByCPU, 3)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantCPU := []float64{90, 70, 40}
	for i, w := range wantCPU {
		if got[i].CPUPercent != w {
			t.Errorf("rank[%d].CPUPercent = %v, want %v", i, got[i].CPUPercent, w)
		}
	}
}

func TestRankRecords_ByMemoryDescending(t *testing.T) {
	got := rankRecords(rankFixture(), RankByMemory, 2)

	if got[0].PID != 104 || got[1].PID != 103 {
		t.Errorf("top memory PIDs = %d, %d, want 104, 103", got[0].PID, got[1].PID)
	}
}

func TestRankRecords_NExceedsLength(t *testing.T) {
	got := rankRecords(rankFixture(), RankByCPU, 50)
	if len(got) != 5 {
		t.Errorf("len = %d, want all 5 records", len(got))
	}
}

func TestRankRecords_NegativeN(t *testing.T) {
	got := rankRecords(rankFixture(), RankByCPU, -1)
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestRankRecords_StableTies(t *testing.T) {
	records := []ProcessRecord{
		{PID: 1, CPUPercent: 50},
		{PID: 2, CPUPercent: 50},
		{PID: 3, CPUPercent: 50},
	}
	got := rankRecords(records, RankByCPU, 3)
	for i, wantPID := range []int32{1, 2, 3} {
		if got[i].PID != wantPID {
			t.Errorf("rank[%d].PID = %d, want %d (input order preserved)", i, got[i].PID, wantPID)
		}
	}
}

func TestProcessRecord_String(t *testing.T) {
	r := ProcessRecord{User: "alice", PID: 102, CPUPercent: 90.5, MemPercent: 5, Command: "ffmpeg -i in.mp4"}
	got := r.String()

	for _, want := range []string{"alice", "102", "90.5%", "ffmpeg -i in.mp4"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestRankBy_String(t *testing.T) {
	if RankByCPU.String() != "cpu" || RankByMemory.String() != "memory" {
		t.Errorf("RankBy names = %q, %q", RankByCPU.String(), RankByMemory.String())
	}
}
