package daemon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/host-pulse/alerting"
	"gitlab.com/tinyland/lab/host-pulse/config"
	"gitlab.com/tinyland/lab/host-pulse/logbook"
	"gitlab.com/tinyland/lab/host-pulse/metrics"
	"gitlab.com/tinyland/lab/host-pulse/state"
)

// MonitorLogName and AlertLogName are the log file names within the
// configured log directory.
const (
	MonitorLogName = "monitor.log"
	AlertLogName   = "alerts.log"
)

// sampleSource is the sampler surface the loop depends on.
type sampleSource interface {
	Collect(ctx context.Context) (metrics.Sample, []string)
	History() []metrics.Sample
}

// Daemon is the monitoring loop: sample, evaluate, record, persist.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	sampler    sampleSource
	store      *state.Store
	monitorLog *logbook.Writer
	alertLog   *logbook.Writer

	startedAt time.Time

	// rankProcesses is injectable for tests.
	rankProcesses func(ctx context.Context, by metrics.RankBy, n int) ([]metrics.ProcessRecord, error)
}

// New creates a Daemon from the configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, err := state.NewStore(cfg.Daemon.StateDir, logger)
	if err != nil {
		return nil, fmt.Errorf("daemon: %w", err)
	}

	return &Daemon{
		cfg:           cfg,
		logger:        logger,
		sampler:       metrics.NewSampler(cfg.Daemon.DiskPath, logger),
		store:         store,
		monitorLog:    logbook.NewWriter(filepath.Join(cfg.Log.Dir, MonitorLogName), cfg.Log.MaxBytes, logger),
		alertLog:      logbook.NewWriter(filepath.Join(cfg.Log.Dir, AlertLogName), cfg.Log.MaxBytes, logger),
		rankProcesses: metrics.TopProcesses,
	}, nil
}

// MonitorLog returns the monitor log writer.
func (d *Daemon) MonitorLog() *logbook.Writer { return d.monitorLog }

// AlertLog returns the alert log writer.
func (d *Daemon) AlertLog() *logbook.Writer { return d.alertLog }

// Run executes the monitoring loop until the context is cancelled. It
// claims the PID file, runs an immediate first tick, then ticks at the
// configured interval. The loop is the top-level supervisor: every
// per-tick failure is logged and absorbed, never fatal.
func (d *Daemon) Run(ctx context.Context) error {
	if err := AcquirePID(d.cfg.Daemon.PIDFile, d.logger); err != nil {
		return err
	}
	defer ReleasePID(d.cfg.Daemon.PIDFile)

	d.startedAt = time.Now()
	interval := d.cfg.PollInterval()
	d.logger.Info("monitor started",
		"interval", interval.String(),
		"cpu_threshold", d.cfg.Thresholds.CPUPercent,
		"memory_threshold", d.cfg.Thresholds.MemoryPercent,
	)
	if err := d.monitorLog.Append("monitor started"); err != nil {
		d.logger.Error("log write failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First pass happens immediately, not one interval in.
	d.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("monitor shutting down")
			if err := d.monitorLog.Append("monitor stopped"); err != nil {
				d.logger.Error("log write failed", "error", err)
			}
			d.monitorLog.Wait()
			d.alertLog.Wait()
			return ctx.Err()
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

// tick performs one sample-evaluate-record pass.
func (d *Daemon) tick(ctx context.Context) {
	sample, _ := d.sampler.Collect(ctx)

	if err := d.monitorLog.Append(sample.String()); err != nil {
		d.logger.Error("monitor log write failed", "error", err)
	}

	thresholds := alerting.Thresholds{
		CPUPercent:    d.cfg.Thresholds.CPUPercent,
		MemoryPercent: d.cfg.Thresholds.MemoryPercent,
		DiskPercent:   d.cfg.Thresholds.DiskPercent,
	}
	alerts := alerting.Evaluate(sample, thresholds)

	var top []metrics.ProcessRecord
	if len(alerts) > 0 {
		var err error
		top, err = d.rankProcesses(ctx, alerts[0].Kind.RankKey(), d.cfg.Thresholds.TopN)
		if err != nil {
			d.logger.Error("process ranking failed", "error", err)
		}
		d.recordAlerts(alerts, top)
	}

	d.persist(sample, alerts, top)
}

// recordAlerts appends the alert headlines and the offending-process
// block to the alert log.
func (d *Daemon) recordAlerts(alerts []alerting.Alert, top []metrics.ProcessRecord) {
	for _, a := range alerts {
		d.logger.Warn("threshold breached", "resource", a.Kind.String(), "value", a.Value, "threshold", a.Threshold)
		if err := d.alertLog.Append(a.Message()); err != nil {
			d.logger.Error("alert log write failed", "error", err)
		}
	}

	if len(top) == 0 {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "top %d processes by %s:", len(top), alerts[0].Kind.RankKey())
	for _, p := range top {
		b.WriteString("\n  ")
		b.WriteString(p.String())
	}
	if err := d.alertLog.Append(b.String()); err != nil {
		d.logger.Error("alert log write failed", "error", err)
	}
}

// persist writes the state snapshot and health file for status and watch.
func (d *Daemon) persist(sample metrics.Sample, alerts []alerting.Alert, top []metrics.ProcessRecord) {
	snap := &state.Snapshot{
		StartedAt:    d.startedAt,
		PID:          os.Getpid(),
		LastSample:   sample,
		History:      d.sampler.History(),
		RecentAlerts: alerts,
		TopProcesses: top,
	}
	if err := d.store.WriteSnapshot(snap); err != nil {
		d.logger.Error("snapshot write failed", "error", err)
	}
	if err := d.store.WriteHealth(os.Getpid()); err != nil {
		d.logger.Error("health write failed", "error", err)
	}
}
