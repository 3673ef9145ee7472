// Package state persists the daemon's latest snapshot for the status and
// watch commands. Writes are atomic: a temp file is written and renamed
// over the previous snapshot so readers never see a partial file.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tinyland/lab/host-pulse/alerting"
	"gitlab.com/tinyland/lab/host-pulse/metrics"
)

// snapshotFile is the snapshot filename within the state directory.
const snapshotFile = "state.json"

// ErrNoSnapshot is returned when no readable snapshot exists.
var ErrNoSnapshot = errors.New("no state snapshot")

// Snapshot is the daemon's persisted view of the world, rewritten on
// every tick.
type Snapshot struct {
	// StartedAt is when the daemon process began running.
	StartedAt time.Time `json:"started_at"`
	// PID is the daemon process ID.
	PID int `json:"pid"`
	// LastSample is the most recent resource sample.
	LastSample metrics.Sample `json:"last_sample"`
	// History holds recent samples, oldest first.
	History []metrics.Sample `json:"history,omitempty"`
	// RecentAlerts holds the alerts raised by the last breaching tick.
	RecentAlerts []alerting.Alert `json:"recent_alerts,omitempty"`
	// TopProcesses holds the ranking captured with the last alert.
	TopProcesses []metrics.ProcessRecord `json:"top_processes,omitempty"`
}

// Store reads and writes snapshot and health files in a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the state directory.
func (s *Store) Dir() string {
	return s.dir
}

// WriteSnapshot atomically replaces the snapshot file.
func (s *Store) WriteSnapshot(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.writeAtomic(snapshotFile, data)
}

// ReadSnapshot reads the current snapshot. A missing file returns
// ErrNoSnapshot; a corrupt file is removed and also reported as absent.
func (s *Store) ReadSnapshot() (*Snapshot, error) {
	path := filepath.Join(s.dir, snapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("corrupt snapshot, removing", "path", path, "error", err)
		os.Remove(path)
		return nil, ErrNoSnapshot
	}
	return &snap, nil
}

// writeAtomic writes data to a temp file in the state directory and
// renames it into place.
func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
