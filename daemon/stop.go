package daemon

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// stopGrace is how long Stop waits after SIGTERM before escalating.
const stopGrace = 2 * time.Second

// stopPollInterval is how often Stop re-probes the process during the
// grace window.
const stopPollInterval = 50 * time.Millisecond

// Stop terminates the daemon identified by the PID file. It sends SIGTERM,
// waits up to the grace window for the process to exit, then sends SIGKILL.
// Stopping an already stopped daemon is a no-op that cleans up stale files.
func Stop(pidPath string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pid, err := ReadPID(pidPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("daemon not running", "pid_file", pidPath)
			return nil
		}
		// Corrupt PID file: nothing to signal, clean it up.
		logger.Warn("removing corrupt PID file", "path", pidPath, "error", err)
		os.Remove(pidPath)
		return nil
	}

	if !IsProcessAlive(pid) {
		logger.Info("removing stale PID file", "path", pidPath, "pid", pid)
		os.Remove(pidPath)
		return nil
	}

	logger.Info("stopping daemon", "pid", pid)
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon (PID %d): %w", pid, err)
	}

	deadline := time.Now().Add(stopGrace)
	for time.Now().Before(deadline) {
		if !IsProcessAlive(pid) {
			os.Remove(pidPath)
			logger.Info("daemon stopped", "pid", pid)
			return nil
		}
		time.Sleep(stopPollInterval)
	}

	// Grace window expired.
	logger.Warn("daemon did not exit within grace window, sending SIGKILL", "pid", pid)
	if err := unix.Kill(pid, unix.SIGKILL); err != nil && !IsProcessAlive(pid) {
		// Lost the race: the process exited between probes.
		err = nil
	} else if err != nil {
		return fmt.Errorf("kill daemon (PID %d): %w", pid, err)
	}

	os.Remove(pidPath)
	logger.Info("daemon killed", "pid", pid)
	return nil
}
