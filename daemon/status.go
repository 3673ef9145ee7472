package daemon

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"gitlab.com/tinyland/lab/host-pulse/config"
	"gitlab.com/tinyland/lab/host-pulse/metrics"
	"gitlab.com/tinyland/lab/host-pulse/state"
)

// StatusReport is the answer to the status command.
type StatusReport struct {
	// Running reports whether a live daemon owns the PID file.
	Running bool
	// PID is the daemon process ID when running.
	PID int
	// Uptime is how long the daemon has been running.
	Uptime time.Duration
	// Stale reports that the daemon process exists but its last poll is
	// older than twice the sampling interval.
	Stale bool
	// LastPoll is the time of the last completed tick, zero when unknown.
	LastPoll time.Time
	// LastSample is the most recent resource sample, nil when unknown.
	LastSample *metrics.Sample
	// HostUptime is how long the host has been up, zero when unavailable.
	HostUptime time.Duration
}

// Status inspects the PID file and state snapshot without disturbing a
// running daemon. Its only side effect is stale PID file cleanup, so
// calling it twice gives the same answer.
func Status(cfg *config.Config, logger *slog.Logger) (*StatusReport, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	report := &StatusReport{HostUptime: hostUptime()}

	pid, err := ReadPID(cfg.Daemon.PIDFile)
	switch {
	case err == nil && IsProcessAlive(pid):
		report.Running = true
		report.PID = pid
	case err == nil:
		logger.Warn("removing stale PID file", "path", cfg.Daemon.PIDFile, "pid", pid)
		os.Remove(cfg.Daemon.PIDFile)
	case !os.IsNotExist(err):
		logger.Warn("removing corrupt PID file", "path", cfg.Daemon.PIDFile, "error", err)
		os.Remove(cfg.Daemon.PIDFile)
	}

	store, err := state.NewStore(cfg.Daemon.StateDir, logger)
	if err != nil {
		return nil, err
	}

	if snap, err := store.ReadSnapshot(); err == nil {
		sample := snap.LastSample
		report.LastSample = &sample
		if report.Running {
			report.Uptime = time.Since(snap.StartedAt)
		}
	} else if !errors.Is(err, state.ErrNoSnapshot) {
		return nil, err
	}

	if health, err := store.ReadHealth(); err == nil {
		report.LastPoll = health.LastPoll
		if report.Running {
			report.Stale = health.Stale(cfg.PollInterval())
		}
	}

	return report, nil
}
