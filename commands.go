package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/host-pulse/config"
	"gitlab.com/tinyland/lab/host-pulse/daemon"
	"gitlab.com/tinyland/lab/host-pulse/display/tui"
	"gitlab.com/tinyland/lab/host-pulse/internal/format"
	"gitlab.com/tinyland/lab/host-pulse/logbook"
)

// Default line counts for the tail commands when -n is not given.
// Alerts are rarer and reviewed in bulk, so their window is larger.
const (
	logsTailDefault   = 20
	alertsTailDefault = 50
)

// commonFlags registers the flags shared by every subcommand.
func commonFlags(fs *flag.FlagSet) (configPath *string, verbose *bool) {
	configPath = fs.String("config", "", "Path to configuration file")
	verbose = fs.Bool("verbose", false, "Enable verbose logging")
	return configPath, verbose
}

// setup parses flags, loads configuration and builds the logger. It
// exits the process on flag errors, matching flag.ExitOnError.
func setup(name string, fs *flag.FlagSet, args []string) (*config.Config, *slog.Logger, error) {
	configPath, verbose := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return cfg, logger, nil
}

// ---------------------------------------------------------------------
// start
// ---------------------------------------------------------------------

func cmdStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	cfg, logger, err := setup("start", fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start failed: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	logger.Info("starting host-pulse daemon", "version", version, "interval", cfg.PollInterval())
	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "daemon error: %v\n", err)
		return 1
	}
	return 0
}

// ---------------------------------------------------------------------
// stop
// ---------------------------------------------------------------------

func cmdStop(args []string) int {
	fs := flag.NewFlagSet("stop", flag.ExitOnError)
	cfg, logger, err := setup("stop", fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := daemon.Stop(cfg.Daemon.PIDFile, logger); err != nil {
		fmt.Fprintf(os.Stderr, "stop failed: %v\n", err)
		return 1
	}
	fmt.Println("host-pulse daemon stopped")
	return 0
}

// ---------------------------------------------------------------------
// status
// ---------------------------------------------------------------------

func cmdStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	cfg, logger, err := setup("status", fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	report, err := daemon.Status(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "status failed: %v\n", err)
		return 1
	}

	// Status is informational: a stopped or stale daemon is an answer,
	// not a failure, so every outcome exits 0.
	if !report.Running {
		fmt.Println("host-pulse daemon: not running")
		if report.LastSample != nil {
			fmt.Printf("  last sample: %s\n", report.LastSample.String())
		}
		return 0
	}

	health := "healthy"
	if report.Stale {
		health = "stale (no recent polls)"
	}
	fmt.Printf("host-pulse daemon: running (PID %d, %s)\n", report.PID, health)
	fmt.Printf("  uptime:      %s\n", format.FormatDuration(report.Uptime))
	fmt.Printf("  last poll:   %s\n", format.FormatTimeSince(report.LastPoll))
	if report.LastSample != nil {
		fmt.Printf("  last sample: %s\n", report.LastSample.String())
	}
	if report.HostUptime > 0 {
		fmt.Printf("  host uptime: %s\n", format.FormatDuration(report.HostUptime))
	}
	return 0
}

// ---------------------------------------------------------------------
// logs / alerts
// ---------------------------------------------------------------------

func cmdLogs(args []string) int {
	return tailLog("logs", daemon.MonitorLogName, logsTailDefault, args)
}

func cmdAlerts(args []string) int {
	return tailLog("alerts", daemon.AlertLogName, alertsTailDefault, args)
}

func tailLog(name, logName string, defaultLines int, args []string) int {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	lines := fs.Int("n", defaultLines, "Number of lines to print")
	cfg, _, err := setup(name, fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	w := logbook.NewWriter(filepath.Join(cfg.Log.Dir, logName), 0, nil)
	tail, err := w.Tail(*lines)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", name, err)
		return 1
	}
	if len(tail) == 0 {
		fmt.Printf("no entries in %s\n", logName)
		return 0
	}
	for _, line := range tail {
		fmt.Println(line)
	}
	return 0
}

// ---------------------------------------------------------------------
// list-logs
// ---------------------------------------------------------------------

func cmdListLogs(args []string) int {
	fs := flag.NewFlagSet("list-logs", flag.ExitOnError)
	cfg, _, err := setup("list-logs", fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var files []logbook.FileInfo
	for _, name := range []string{daemon.MonitorLogName, daemon.AlertLogName} {
		w := logbook.NewWriter(filepath.Join(cfg.Log.Dir, name), 0, nil)
		fis, err := w.List()
		if err != nil {
			fmt.Fprintf(os.Stderr, "list-logs failed: %v\n", err)
			return 1
		}
		files = append(files, fis...)
	}

	if len(files) == 0 {
		fmt.Printf("no log files in %s\n", cfg.Log.Dir)
		return 0
	}

	fmt.Printf("%-40s %10s  %-19s %s\n", "NAME", "SIZE", "MODIFIED", "STATE")
	for _, f := range files {
		state := "rotated"
		if f.Active {
			state = "active"
		}
		fmt.Printf("%-40s %10d  %-19s %s\n",
			f.Name, f.Size, f.ModTime.Format("2006-01-02 15:04:05"), state)
	}
	return 0
}

// ---------------------------------------------------------------------
// watch
// ---------------------------------------------------------------------

func cmdWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	cfg, _, err := setup("watch", fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			// Restore the terminal from alt-screen before printing the error.
			fmt.Print("\x1b[?1049l\x1b[?25h")
			fmt.Fprintf(os.Stderr, "host-pulse: watch panic: %v\n", r)
			os.Exit(1)
		}
	}()

	p := tea.NewProgram(tui.New(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		return 1
	}
	return 0
}
