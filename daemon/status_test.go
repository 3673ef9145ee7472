package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/host-pulse/config"
	"gitlab.com/tinyland/lab/host-pulse/metrics"
	"gitlab.com/tinyland/lab/host-pulse/state"
)

func statusTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Daemon.PIDFile = filepath.Join(dir, "host-pulse.pid")
	cfg.Daemon.StateDir = filepath.Join(dir, "state")
	cfg.Log.Dir = filepath.Join(dir, "logs")
	return cfg
}

func TestStatus_NotRunning(t *testing.T) {
	cfg := statusTestConfig(t)

	report, err := Status(cfg, nil)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if report.Running {
		t.Error("Running = true, want false with no PID file")
	}
	if report.LastSample != nil {
		t.Error("LastSample set with no snapshot")
	}
}

func TestStatus_StalePIDCleanedUpIdempotently(t *testing.T) {
	cfg := statusTestConfig(t)
	if err := os.WriteFile(cfg.Daemon.PIDFile, []byte(strconv.Itoa(bogusPID)), 0644); err != nil {
		t.Fatal(err)
	}

	first, err := Status(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.Running {
		t.Error("stale PID reported as running")
	}
	if _, err := os.Stat(cfg.Daemon.PIDFile); !os.IsNotExist(err) {
		t.Error("stale PID file not removed")
	}

	second, err := Status(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if second.Running != first.Running {
		t.Error("second Status call disagrees with the first")
	}
}

func TestStatus_RunningWithSnapshot(t *testing.T) {
	cfg := statusTestConfig(t)
	if err := os.WriteFile(cfg.Daemon.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := state.NewStore(cfg.Daemon.StateDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	snap := &state.Snapshot{
		StartedAt:  time.Now().Add(-time.Hour),
		PID:        os.Getpid(),
		LastSample: metrics.Sample{CPUPercent: 21.5},
	}
	if err := store.WriteSnapshot(snap); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteHealth(os.Getpid()); err != nil {
		t.Fatal(err)
	}

	report, err := Status(cfg, nil)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !report.Running {
		t.Fatal("Running = false, want true")
	}
	if report.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", report.PID, os.Getpid())
	}
	if report.Uptime < 59*time.Minute {
		t.Errorf("Uptime = %s, want about an hour", report.Uptime)
	}
	if report.LastSample == nil || report.LastSample.CPUPercent != 21.5 {
		t.Errorf("LastSample = %+v, want CPU 21.5", report.LastSample)
	}
	if report.Stale {
		t.Error("fresh daemon reported stale")
	}
}

func TestStatus_ReportsLastPoll(t *testing.T) {
	cfg := statusTestConfig(t)

	store, err := state.NewStore(cfg.Daemon.StateDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.WriteHealth(os.Getpid()); err != nil {
		t.Fatal(err)
	}

	report, err := Status(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.LastPoll.IsZero() {
		t.Error("LastPoll is zero, want the health file timestamp")
	}
}
