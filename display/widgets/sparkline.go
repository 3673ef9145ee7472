package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks are the unicode blocks used for sparkline levels, lowest first.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SparklineConfig controls a one-line history chart.
type SparklineConfig struct {
	// Data points to render, most recent last.
	Data []float64
	// Width is the number of characters. Older points beyond Width are
	// dropped; shorter series are left-padded with spaces.
	Width int
	// Min and Max fix the value scale. With Min == Max the scale is
	// derived from the data.
	Min float64
	// Max is the top of the scale.
	Max float64
	// Color tints the blocks when set.
	Color lipgloss.Color
}

// RenderSparkline renders the series as unicode blocks.
func RenderSparkline(cfg SparklineConfig) string {
	if len(cfg.Data) == 0 {
		return ""
	}

	data := cfg.Data
	width := cfg.Width
	if width <= 0 {
		width = len(data)
	}
	if width < len(data) {
		data = data[len(data)-width:]
	}

	minVal, maxVal := cfg.Min, cfg.Max
	if minVal == maxVal {
		minVal, maxVal = data[0], data[0]
		for _, v := range data {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}

	runes := make([]rune, 0, len(data))
	for _, v := range data {
		if minVal == maxVal {
			runes = append(runes, sparkBlocks[len(sparkBlocks)/2])
			continue
		}
		normalized := math.Max(0, math.Min(1, (v-minVal)/(maxVal-minVal)))
		runes = append(runes, sparkBlocks[int(normalized*float64(len(sparkBlocks)-1))])
	}

	s := string(runes)
	if width > len(data) {
		s = strings.Repeat(" ", width-len(data)) + s
	}
	if cfg.Color != "" {
		s = lipgloss.NewStyle().Foreground(cfg.Color).Render(s)
	}
	return s
}
