package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// isolateEnv points every HOST_PULSE_* path at temp directories so
// command tests never touch the real host state.
func isolateEnv(t *testing.T) (logDir string) {
	t.Helper()
	logDir = t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HOST_PULSE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HOST_PULSE_LOG_DIR", logDir)
	t.Setenv("HOST_PULSE_PID_FILE", filepath.Join(t.TempDir(), "host-pulse.pid"))
	t.Setenv("HOST_PULSE_STATE_DIR", t.TempDir())
	return logDir
}

func TestPrintUsage_ListsAllCommands(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "usage")
	if err != nil {
		t.Fatal(err)
	}
	printUsage(f)
	f.Close()

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}

	out := string(data)
	for _, cmd := range []string{"start", "stop", "status", "logs", "alerts", "list-logs", "watch", "version"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("usage missing command %q", cmd)
		}
	}
}

func TestCmdStop_NoDaemonIsNoop(t *testing.T) {
	isolateEnv(t)

	if code := cmdStop(nil); code != 0 {
		t.Errorf("stop with no PID file: exit code = %d, want 0", code)
	}
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything fn printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	w.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCmdStatus_NotRunningExitsZero(t *testing.T) {
	isolateEnv(t)

	if code := cmdStatus(nil); code != 0 {
		t.Errorf("status with no daemon: exit code = %d, want 0 (status is informational)", code)
	}
}

func TestRun_NoArgsDefaultsToStart(t *testing.T) {
	isolateEnv(t)

	// A PID file owned by this live process makes start fail fast with
	// "already running" instead of entering the monitor loop.
	pidPath := os.Getenv("HOST_PULSE_PID_FILE")
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		t.Fatal(err)
	}

	if code := run(nil); code != 1 {
		t.Errorf("bare invocation: exit code = %d, want 1 (start refused by live PID file)", code)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	isolateEnv(t)

	if code := run([]string{"bogus"}); code != 2 {
		t.Errorf("unknown command: exit code = %d, want 2", code)
	}
}

func TestTailLog_PrintsSeededLines(t *testing.T) {
	logDir := isolateEnv(t)

	content := "[2026-03-14 09:26:53] CPU: 12.0% | MEM: 30.0% | DISK: 40.0% | LOAD: 0.10 0.20 0.30\n"
	if err := os.WriteFile(filepath.Join(logDir, "monitor.log"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if code := cmdLogs(nil); code != 0 {
		t.Errorf("logs: exit code = %d, want 0", code)
	}
}

func TestCmdAlerts_DefaultsToFiftyLines(t *testing.T) {
	logDir := isolateEnv(t)

	var b strings.Builder
	for i := 1; i <= 60; i++ {
		fmt.Fprintf(&b, "[2026-03-14 09:26:53] HIGH CPU USAGE: 95.0%% (threshold: 90.0%%) seq=%d\n", i)
	}
	if err := os.WriteFile(filepath.Join(logDir, "alerts.log"), []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}

	var code int
	out := captureStdout(t, func() { code = cmdAlerts(nil) })
	if code != 0 {
		t.Fatalf("alerts: exit code = %d, want 0", code)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 50 {
		t.Fatalf("alerts printed %d lines, want 50", len(lines))
	}
	if !strings.HasSuffix(lines[0], "seq=11") || !strings.HasSuffix(lines[49], "seq=60") {
		t.Errorf("alerts window wrong: first %q, last %q", lines[0], lines[49])
	}
}

func TestCmdListLogs_EmptyDir(t *testing.T) {
	isolateEnv(t)

	if code := cmdListLogs(nil); code != 0 {
		t.Errorf("list-logs on empty dir: exit code = %d, want 0", code)
	}
}
