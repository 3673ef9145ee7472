//go:build !linux

package daemon

import "time"

// hostUptime is unavailable off Linux.
func hostUptime() time.Duration {
	return 0
}
