package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// healthFile is the health check filename within the state directory.
const healthFile = "health.json"

// Health is the daemon liveness record, rewritten on every tick.
type Health struct {
	Status   string    `json:"status"`
	PID      int       `json:"pid"`
	LastPoll time.Time `json:"last_poll"`
}

// Stale reports whether the last poll is older than twice the sampling
// interval, meaning the daemon process is wedged or gone.
func (h *Health) Stale(interval time.Duration) bool {
	return time.Since(h.LastPoll) > 2*interval
}

// WriteHealth atomically replaces the health file.
func (s *Store) WriteHealth(pid int) error {
	h := Health{
		Status:   "ok",
		PID:      pid,
		LastPoll: time.Now(),
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal health: %w", err)
	}
	return s.writeAtomic(healthFile, data)
}

// ReadHealth reads the health file.
func (s *Store) ReadHealth() (*Health, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, healthFile))
	if err != nil {
		return nil, fmt.Errorf("read health file: %w", err)
	}

	var h Health
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("unmarshal health file: %w", err)
	}
	return &h, nil
}
