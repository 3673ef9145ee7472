// Package config provides configuration parsing for host-pulse.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the host-pulse daemon configuration.
type Config struct {
	// Thresholds holds alert threshold settings.
	Thresholds ThresholdConfig `yaml:"thresholds"`

	// Daemon holds polling and lifecycle settings.
	Daemon DaemonConfig `yaml:"daemon"`

	// Log holds log file settings.
	Log LogConfig `yaml:"log"`
}

// ThresholdConfig holds alert threshold settings.
type ThresholdConfig struct {
	// CPUPercent is the CPU usage percentage above which an alert fires.
	CPUPercent float64 `yaml:"cpu_percent"`
	// MemoryPercent is the memory usage percentage above which an alert fires.
	MemoryPercent float64 `yaml:"memory_percent"`
	// DiskPercent is the disk usage percentage above which an alert fires.
	// Zero disables disk alerting.
	DiskPercent float64 `yaml:"disk_percent"`
	// TopN is the number of top processes captured when an alert fires.
	TopN int `yaml:"top_n"`
}

// DaemonConfig holds polling and lifecycle settings.
type DaemonConfig struct {
	// Interval is a duration string (e.g. "5s", "1m") between sampling passes.
	Interval string `yaml:"interval"`
	// PIDFile is the path to the daemon PID file.
	PIDFile string `yaml:"pid_file"`
	// StateDir is the directory for the daemon state snapshot and health file.
	StateDir string `yaml:"state_dir"`
	// DiskPath is the mount point sampled for disk usage.
	DiskPath string `yaml:"disk_path"`
}

// LogConfig holds log file settings.
type LogConfig struct {
	// Dir is the directory holding monitor and alert logs.
	Dir string `yaml:"dir"`
	// MaxBytes is the size at which a log file is rotated.
	MaxBytes int64 `yaml:"max_bytes"`
}

// minInterval is the smallest accepted sampling interval.
const minInterval = time.Second

// minLogMaxBytes is the smallest accepted rotation size.
const minLogMaxBytes = 4 * 1024

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	stateDir := filepath.Join(home, ".local", "state", "host-pulse")

	return &Config{
		Thresholds: ThresholdConfig{
			CPUPercent:    90,
			MemoryPercent: 90,
			DiskPercent:   0,
			TopN:          5,
		},
		Daemon: DaemonConfig{
			Interval: "5s",
			PIDFile:  defaultPIDFile(),
			StateDir: stateDir,
			DiskPath: "/",
		},
		Log: LogConfig{
			Dir:      filepath.Join(stateDir, "logs"),
			MaxBytes: 10 * 1024 * 1024,
		},
	}
}

// defaultPIDFile returns the runtime-dir PID file path, preferring
// XDG_RUNTIME_DIR and falling back to a per-user /tmp directory.
func defaultPIDFile() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = filepath.Join(os.TempDir(), fmt.Sprintf("host-pulse-%d", os.Getuid()))
	}
	return filepath.Join(runtimeDir, "host-pulse.pid")
}

// searchPaths returns the config file locations probed by Load, in order.
func searchPaths() []string {
	var paths []string
	if p := os.Getenv("HOST_PULSE_CONFIG"); p != "" {
		paths = append(paths, p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "host-pulse", "config.yaml"))
	}
	paths = append(paths, "/etc/host-pulse/config.yaml")
	return paths
}

// Load reads configuration from the first existing search path, merging
// over defaults and applying environment overrides. A missing config file
// is not an error; defaults apply.
func Load() (*Config, error) {
	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err == nil {
			return LoadFromFile(path)
		}
	}

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file, merging over
// defaults and applying environment overrides.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnvOverrides applies HOST_PULSE_* environment variables on top of
// whatever the config file provided.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HOST_PULSE_CPU_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Thresholds.CPUPercent = f
		}
	}
	if v := os.Getenv("HOST_PULSE_MEMORY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Thresholds.MemoryPercent = f
		}
	}
	if v := os.Getenv("HOST_PULSE_DISK_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Thresholds.DiskPercent = f
		}
	}
	if v := os.Getenv("HOST_PULSE_INTERVAL"); v != "" {
		cfg.Daemon.Interval = v
	}
	if v := os.Getenv("HOST_PULSE_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Thresholds.TopN = n
		}
	}
	if v := os.Getenv("HOST_PULSE_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}
	if v := os.Getenv("HOST_PULSE_PID_FILE"); v != "" {
		cfg.Daemon.PIDFile = v
	}
	if v := os.Getenv("HOST_PULSE_STATE_DIR"); v != "" {
		cfg.Daemon.StateDir = v
	}
}

// PollInterval returns the parsed sampling interval.
// Validate guarantees the string parses; on a zero-value Config the
// minimum interval is returned.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Daemon.Interval)
	if err != nil || d < minInterval {
		return minInterval
	}
	return d
}

// Validate checks the configuration for required fields and value ranges.
// Out-of-range values are rejected, never clamped.
func (c *Config) Validate() error {
	// A zero CPU or memory threshold is legal: any positive sample
	// breaches it, which is useful for smoke-testing the alert path.
	if c.Thresholds.CPUPercent < 0 || c.Thresholds.CPUPercent > 100 {
		return fmt.Errorf("thresholds.cpu_percent must be in [0, 100], got %v", c.Thresholds.CPUPercent)
	}
	if c.Thresholds.MemoryPercent < 0 || c.Thresholds.MemoryPercent > 100 {
		return fmt.Errorf("thresholds.memory_percent must be in [0, 100], got %v", c.Thresholds.MemoryPercent)
	}
	if c.Thresholds.DiskPercent < 0 || c.Thresholds.DiskPercent > 100 {
		return fmt.Errorf("thresholds.disk_percent must be in [0, 100], got %v", c.Thresholds.DiskPercent)
	}
	if c.Thresholds.TopN < 1 {
		return fmt.Errorf("thresholds.top_n must be at least 1, got %d", c.Thresholds.TopN)
	}

	if c.Daemon.Interval == "" {
		return fmt.Errorf("daemon.interval is required")
	}
	d, err := time.ParseDuration(c.Daemon.Interval)
	if err != nil {
		return fmt.Errorf("daemon.interval: %w", err)
	}
	if d < minInterval {
		return fmt.Errorf("daemon.interval must be at least %s, got %s", minInterval, d)
	}
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("daemon.pid_file is required")
	}
	if c.Daemon.StateDir == "" {
		return fmt.Errorf("daemon.state_dir is required")
	}
	if c.Daemon.DiskPath == "" {
		return fmt.Errorf("daemon.disk_path is required")
	}

	if c.Log.Dir == "" {
		return fmt.Errorf("log.dir is required")
	}
	if c.Log.MaxBytes < minLogMaxBytes {
		return fmt.Errorf("log.max_bytes must be at least %d, got %d", minLogMaxBytes, c.Log.MaxBytes)
	}

	return nil
}

// Save writes the configuration to a YAML file, creating parent
// directories as needed.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
