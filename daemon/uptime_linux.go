//go:build linux

package daemon

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// hostUptime reads the host uptime from /proc/uptime. Returns zero when
// the file is unreadable.
func hostUptime() time.Duration {
	data, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
