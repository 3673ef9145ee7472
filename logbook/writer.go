// Package logbook appends timestamped records to size-rotated log files.
package logbook

import (
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// lineTimeLayout is the timestamp prefix layout for every record.
const lineTimeLayout = "2006-01-02 15:04:05"

// rotateTimeLayout is the suffix appended to rotated file names.
const rotateTimeLayout = "20060102_150405"

// Writer appends records to a single log file and rotates it once it
// grows past maxBytes. Rotation renames the file and starts a fresh one;
// compression of the rotated file happens in the background and is best
// effort. Writer is safe for concurrent use.
type Writer struct {
	path     string
	maxBytes int64
	logger   *slog.Logger

	mu         sync.Mutex
	compressWG sync.WaitGroup

	// now is injectable for rotation-name tests.
	now func() time.Time
}

// NewWriter creates a Writer for the given log file path. A maxBytes of
// zero or less disables rotation.
func NewWriter(path string, maxBytes int64, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{
		path:     path,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

// Path returns the active log file path.
func (w *Writer) Path() string {
	return w.path
}

// Append writes one record as "[YYYY-MM-DD HH:MM:SS] <msg>" followed by a
// newline, rotating the file first if it has reached the size limit.
// Multi-line messages keep the timestamp on the first line only.
func (w *Writer) Append(msg string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.rotateIfNeeded(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", w.now().Format(lineTimeLayout), msg)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append log record: %w", err)
	}
	return nil
}

// rotateIfNeeded renames the active file once it has grown past maxBytes
// and schedules background compression of the rotated file. A file at
// exactly maxBytes is left alone. Callers hold w.mu.
func (w *Writer) rotateIfNeeded() error {
	if w.maxBytes <= 0 {
		return nil
	}

	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= w.maxBytes {
		return nil
	}

	rotated := fmt.Sprintf("%s.%s", w.path, w.now().Format(rotateTimeLayout))
	if err := os.Rename(w.path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	w.logger.Info("rotated log file", "from", w.path, "to", rotated)

	w.compressWG.Add(1)
	go func() {
		defer w.compressWG.Done()
		w.compress(rotated)
	}()
	return nil
}

// compress gzips a rotated file and removes the original. Failures leave
// the uncompressed file in place.
func (w *Writer) compress(path string) {
	src, err := os.Open(path)
	if err != nil {
		w.logger.Warn("compress: open rotated file", "path", path, "error", err)
		return
	}
	defer src.Close()

	gzPath := path + ".gz"
	dst, err := os.Create(gzPath)
	if err != nil {
		w.logger.Warn("compress: create archive", "path", gzPath, "error", err)
		return
	}

	gw := gzip.NewWriter(dst)
	_, copyErr := io.Copy(gw, src)
	closeErr := gw.Close()
	if err := dst.Close(); err != nil && copyErr == nil {
		copyErr = err
	}
	if copyErr != nil || closeErr != nil {
		w.logger.Warn("compress: write archive", "path", gzPath, "copy_error", copyErr, "close_error", closeErr)
		os.Remove(gzPath)
		return
	}

	if err := os.Remove(path); err != nil {
		w.logger.Warn("compress: remove rotated original", "path", path, "error", err)
		return
	}
	w.logger.Info("compressed rotated log", "path", gzPath)
}

// Wait blocks until all scheduled background compressions have finished.
func (w *Writer) Wait() {
	w.compressWG.Wait()
}

// Tail returns the last n lines of the active log file, oldest first.
// A missing file yields an empty slice.
func (w *Writer) Tail(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
