// Package daemon runs the monitoring loop and manages its lifecycle
// through a PID file.
package daemon

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// IsProcessAlive reports whether a process with the given PID exists,
// probed with signal 0. A PID of zero or less is never alive. EPERM
// counts as alive: the process exists but belongs to another user.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	if err == nil {
		return true
	}
	return errors.Is(err, unix.EPERM)
}

// ReadPID reads and parses the PID file.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("corrupt PID file %s: %w", path, err)
	}
	return pid, nil
}

// AcquirePID claims the PID file for the current process. It fails when a
// live process already owns the file; stale or corrupt files are removed
// and acquisition proceeds.
func AcquirePID(path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if pid, err := ReadPID(path); err == nil {
		if IsProcessAlive(pid) {
			return fmt.Errorf("daemon already running (PID %d)", pid)
		}
		logger.Warn("removing stale PID file", "path", path, "pid", pid)
		os.Remove(path)
	} else if !os.IsNotExist(err) {
		logger.Warn("removing corrupt PID file", "path", path, "error", err)
		os.Remove(path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create PID file directory: %w", err)
	}
	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	logger.Info("wrote PID file", "path", path, "pid", pid)
	return nil
}

// ReleasePID removes the PID file. A missing file is not an error.
func ReleasePID(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove PID file: %w", err)
	}
	return nil
}
