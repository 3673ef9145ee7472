package tui

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/host-pulse/display/widgets"
	"gitlab.com/tinyland/lab/host-pulse/internal/format"
)

// renderDashboard renders the gauges, load line and CPU history sparkline.
func (m Model) renderDashboard(height int) string {
	var sections []string

	sections = append(sections, styleTitle.Render("Host Resources"))
	sections = append(sections, "")

	gaugeWidth := m.width - 20
	if gaugeWidth < 10 {
		gaugeWidth = 10
	}
	if gaugeWidth > 60 {
		gaugeWidth = 60
	}

	gauges := []struct {
		label   string
		percent float64
		danger  float64
	}{
		{"CPU", m.sample.CPUPercent, m.cfg.Thresholds.CPUPercent},
		{"MEM", m.sample.MemoryPercent, m.cfg.Thresholds.MemoryPercent},
		{"DISK", m.sample.DiskPercent, diskDanger(m.cfg.Thresholds.DiskPercent)},
	}
	for _, g := range gauges {
		sections = append(sections, widgets.RenderGauge(widgets.GaugeConfig{
			Label:       g.label,
			LabelWidth:  4,
			Width:       gaugeWidth,
			Percent:     g.percent,
			Warning:     g.danger * 0.8,
			Danger:      g.danger,
			ShowPercent: true,
		}))
	}

	sections = append(sections, "")
	sections = append(sections, fmt.Sprintf("Load average: %s", m.sample.LoadAverage()))

	if len(m.cpuHistory) > 1 {
		sections = append(sections, "")
		sections = append(sections, styleTitle.Render("CPU history"))
		sections = append(sections, widgets.RenderSparkline(widgets.SparklineConfig{
			Data:  m.cpuHistory,
			Width: gaugeWidth,
			Min:   0,
			Max:   100,
			Color: colorSecondary,
		}))
	}

	return strings.Join(sections, "\n")
}

// diskDanger falls back to 90 when disk alerting is disabled so the
// gauge still changes color near full.
func diskDanger(threshold float64) float64 {
	if threshold <= 0 {
		return 90
	}
	return threshold
}

// renderProcesses renders the top-process table.
func (m Model) renderProcesses(height int) string {
	if len(m.procs) == 0 {
		return "No process data yet."
	}

	cfg := widgets.DefaultTableConfig()
	cfg.Columns = []widgets.Column{
		{Title: "USER", Width: 10},
		{Title: "PID", Width: 7, Align: widgets.AlignRight},
		{Title: "CPU%", Width: 6, Align: widgets.AlignRight},
		{Title: "MEM%", Width: 6, Align: widgets.AlignRight},
		{Title: "COMMAND"},
	}
	for _, p := range m.procs {
		cfg.Rows = append(cfg.Rows, []string{
			p.User,
			fmt.Sprintf("%d", p.PID),
			fmt.Sprintf("%.1f", p.CPUPercent),
			fmt.Sprintf("%.1f", p.MemPercent),
			p.Command,
		})
	}

	title := styleTitle.Render(fmt.Sprintf("Top %d processes by CPU", len(m.procs)))
	return title + "\n\n" + widgets.RenderTable(cfg)
}

// renderAlerts renders the tail of the alert log.
func (m Model) renderAlerts(height int) string {
	if len(m.alertLines) == 0 {
		return "No alerts recorded."
	}

	lines := m.alertLines
	if len(lines) > height-2 && height > 2 {
		lines = lines[len(lines)-(height-2):]
	}

	styled := make([]string, 0, len(lines)+2)
	styled = append(styled, styleTitle.Render(fmt.Sprintf("Recent alerts (%s)", format.FormatTimeSince(m.lastUpdated))))
	styled = append(styled, "")
	for _, l := range lines {
		if strings.Contains(l, "HIGH") {
			styled = append(styled, styleAlertLine.Render(l))
		} else {
			styled = append(styled, l)
		}
	}
	return strings.Join(styled, "\n")
}
