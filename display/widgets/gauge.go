// Package widgets renders the text widgets used by the watch view.
package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	gaugeFilled = "█"
	gaugeEmpty  = "░"
)

// GaugeConfig controls a horizontal usage bar.
type GaugeConfig struct {
	// Label is text shown to the left of the bar, padded to LabelWidth.
	Label string
	// LabelWidth pads labels so stacked gauges align. 0 disables padding.
	LabelWidth int
	// Width is the character width of the bar itself.
	Width int
	// Percent is the value from 0 to 100; out-of-range values are clamped.
	Percent float64
	// Warning is the percent at which the bar turns yellow.
	Warning float64
	// Danger is the percent at which the bar turns red. Usually the
	// configured alert threshold.
	Danger float64
	// ShowPercent appends "XX%" after the bar.
	ShowPercent bool
}

// DefaultGaugeConfig returns a GaugeConfig with sensible defaults.
func DefaultGaugeConfig() GaugeConfig {
	return GaugeConfig{
		Width:       20,
		Warning:     70,
		Danger:      90,
		ShowPercent: true,
	}
}

// gaugeColor maps a percent to green, yellow or red.
func gaugeColor(percent, warning, danger float64) lipgloss.Color {
	switch {
	case percent >= danger:
		return lipgloss.Color("#EF4444")
	case percent >= warning:
		return lipgloss.Color("#EAB308")
	default:
		return lipgloss.Color("#22C55E")
	}
}

// RenderGauge renders a bar like "CPU  ████████░░░░░░░░░░░░  40%".
func RenderGauge(cfg GaugeConfig) string {
	percent := math.Max(0, math.Min(100, cfg.Percent))

	width := cfg.Width
	if width <= 0 {
		width = 20
	}

	filled := int(math.Round(percent / 100.0 * float64(width)))
	bar := lipgloss.NewStyle().
		Foreground(gaugeColor(percent, cfg.Warning, cfg.Danger)).
		Render(strings.Repeat(gaugeFilled, filled)) +
		strings.Repeat(gaugeEmpty, width-filled)

	var sb strings.Builder
	if cfg.Label != "" {
		label := cfg.Label
		if cfg.LabelWidth > len(label) {
			label += strings.Repeat(" ", cfg.LabelWidth-len(label))
		}
		sb.WriteString(label)
		sb.WriteString(" ")
	}
	sb.WriteString(bar)
	if cfg.ShowPercent {
		fmt.Fprintf(&sb, " %5.1f%%", percent)
	}
	return sb.String()
}
