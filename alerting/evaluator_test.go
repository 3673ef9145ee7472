package alerting

import (
	"testing"
	"time"

	"gitlab.com/tinyland/lab/host-pulse/metrics"
)

func testThresholds() Thresholds {
	return Thresholds{CPUPercent: 90, MemoryPercent: 80, DiskPercent: 95}
}

func TestEvaluate_NoBreach(t *testing.T) {
	s := metrics.Sample{CPUPercent: 50, MemoryPercent: 50, DiskPercent: 50}
	alerts := Evaluate(s, testThresholds())
	if len(alerts) != 0 {
		t.Errorf("alerts = %v, want none", alerts)
	}
}

func TestEvaluate_EqualToThresholdIsNotBreach(t *testing.T) {
	s := metrics.Sample{CPUPercent: 90, MemoryPercent: 80, DiskPercent: 95}
	alerts := Evaluate(s, testThresholds())
	if len(alerts) != 0 {
		t.Errorf("alerts = %v, want none for values equal to thresholds", alerts)
	}
}

func TestEvaluate_SingleBreach(t *testing.T) {
	s := metrics.Sample{Timestamp: time.Now(), CPUPercent: 93.2, MemoryPercent: 50}
	alerts := Evaluate(s, testThresholds())

	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}
	a := alerts[0]
	if a.Kind != KindCPUHigh {
		t.Errorf("Kind = %v, want KindCPUHigh", a.Kind)
	}
	if a.Value != 93.2 || a.Threshold != 90 {
		t.Errorf("Value/Threshold = %v/%v, want 93.2/90", a.Value, a.Threshold)
	}
	if a.Time != s.Timestamp {
		t.Errorf("Time = %v, want sample timestamp %v", a.Time, s.Timestamp)
	}
}

func TestEvaluate_MultipleBreaches(t *testing.T) {
	s := metrics.Sample{CPUPercent: 99, MemoryPercent: 99, DiskPercent: 99}
	alerts := Evaluate(s, testThresholds())

	if len(alerts) != 3 {
		t.Fatalf("len(alerts) = %d, want 3", len(alerts))
	}
	wantKinds := []Kind{KindCPUHigh, KindMemoryHigh, KindDiskHigh}
	for i, k := range wantKinds {
		if alerts[i].Kind != k {
			t.Errorf("alerts[%d].Kind = %v, want %v", i, alerts[i].Kind, k)
		}
	}
}

func TestEvaluate_ZeroDiskThresholdDisablesDiskAlert(t *testing.T) {
	th := Thresholds{CPUPercent: 90, MemoryPercent: 90, DiskPercent: 0}
	s := metrics.Sample{DiskPercent: 99}
	alerts := Evaluate(s, th)
	if len(alerts) != 0 {
		t.Errorf("alerts = %v, want none with disk alerting disabled", alerts)
	}
}

// Raising a value must never remove an alert a lower value produced.
func TestEvaluate_Monotonic(t *testing.T) {
	th := testThresholds()
	prev := 0
	for v := 0.0; v <= 100; v += 0.5 {
		s := metrics.Sample{CPUPercent: v, MemoryPercent: v, DiskPercent: v}
		n := len(Evaluate(s, th))
		if n < prev {
			t.Fatalf("alert count dropped from %d to %d at value %v", prev, n, v)
		}
		prev = n
	}
}

func TestAlert_Message(t *testing.T) {
	a := Alert{Kind: KindCPUHigh, Value: 93.25, Threshold: 90}
	got := a.Message()
	want := "HIGH CPU USAGE: 93.2% (threshold: 90.0%)"
	if got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}

	a = Alert{Kind: KindMemoryHigh, Value: 91, Threshold: 80}
	if got, want := a.Message(), "HIGH MEMORY USAGE: 91.0% (threshold: 80.0%)"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
}

func TestEvaluate_ZeroThresholdBreachesOnAnyActivity(t *testing.T) {
	thresholds := Thresholds{CPUPercent: 0, MemoryPercent: 0}

	busy := metrics.Sample{CPUPercent: 0.1, MemoryPercent: 0.1}
	if alerts := Evaluate(busy, thresholds); len(alerts) != 2 {
		t.Errorf("len(alerts) = %d, want 2 (any positive sample breaches a zero threshold)", len(alerts))
	}

	// An exactly-zero sample does not breach under strict greater-than.
	if alerts := Evaluate(metrics.Sample{}, thresholds); len(alerts) != 0 {
		t.Errorf("idle sample raised %d alerts, want 0", len(alerts))
	}
}

func TestKind_RankKey(t *testing.T) {
	if KindCPUHigh.RankKey() != metrics.RankByCPU {
		t.Error("CPU alert should rank by CPU")
	}
	if KindMemoryHigh.RankKey() != metrics.RankByMemory {
		t.Error("memory alert should rank by memory")
	}
	if KindDiskHigh.RankKey() != metrics.RankByMemory {
		t.Error("disk alert should rank by memory")
	}
}
