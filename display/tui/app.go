// Package tui implements the interactive watch view.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/host-pulse/config"
	"gitlab.com/tinyland/lab/host-pulse/daemon"
	"gitlab.com/tinyland/lab/host-pulse/logbook"
	"gitlab.com/tinyland/lab/host-pulse/metrics"
)

// Tab identifies which tab is currently active.
type Tab int

const (
	TabDashboard Tab = iota
	TabProcesses
	TabAlerts
	tabCount // sentinel for wrapping
)

// tabNames maps each Tab value to its display label.
var tabNames = map[Tab]string{
	TabDashboard: "Dashboard",
	TabProcesses: "Processes",
	TabAlerts:    "Alerts",
}

// zoneID returns the bubblezone mark for a tab.
func (t Tab) zoneID() string {
	return fmt.Sprintf("tab-%d", int(t))
}

// tickMsg requests a new collection pass.
type tickMsg time.Time

// dataMsg carries the result of a collection pass.
type dataMsg struct {
	sample     metrics.Sample
	cpuHistory []float64
	procs      []metrics.ProcessRecord
	alertLines []string
}

// Model is the top-level Bubbletea model for the watch view.
type Model struct {
	cfg     *config.Config
	sampler *metrics.Sampler

	activeTab   Tab
	width       int
	height      int
	ready       bool
	sample      metrics.Sample
	cpuHistory  []float64
	procs       []metrics.ProcessRecord
	alertLines  []string
	lastUpdated time.Time
}

// New returns an initialized Model with the dashboard tab active. The
// view runs its own sampler so it works with or without the daemon.
func New(cfg *config.Config) Model {
	zone.NewGlobal()
	w, h := DetectTerminalSize()
	return Model{
		cfg:       cfg,
		sampler:   metrics.NewSampler(cfg.Daemon.DiskPath, nil),
		activeTab: TabDashboard,
		width:     w,
		height:    h,
		ready:     true,
	}
}

// Init implements tea.Model. It kicks off the first collection pass.
func (m Model) Init() tea.Cmd {
	return m.collect
}

// tick schedules the next collection pass at the configured interval.
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.PollInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// collect runs one sampling pass and gathers the top processes and the
// tail of the alert log.
func (m Model) collect() tea.Msg {
	ctx := context.Background()

	sample, _ := m.sampler.Collect(ctx)

	history := m.sampler.History()
	cpuHistory := make([]float64, len(history))
	for i, s := range history {
		cpuHistory[i] = s.CPUPercent
	}

	procs, err := metrics.TopProcesses(ctx, metrics.RankByCPU, m.cfg.Thresholds.TopN)
	if err != nil {
		procs = nil
	}

	alertLog := logbook.NewWriter(filepath.Join(m.cfg.Log.Dir, daemon.AlertLogName), 0, nil)
	alertLines, _ := alertLog.Tail(recentAlertLines)

	return dataMsg{
		sample:     sample,
		cpuHistory: cpuHistory,
		procs:      procs,
		alertLines: alertLines,
	}
}

// recentAlertLines is how many alert log lines the alerts tab shows.
const recentAlertLines = 30

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.NextTab):
			m.activeTab = (m.activeTab + 1) % tabCount
		case key.Matches(msg, keys.PrevTab):
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case key.Matches(msg, keys.Tab1):
			m.activeTab = TabDashboard
		case key.Matches(msg, keys.Tab2):
			m.activeTab = TabProcesses
		case key.Matches(msg, keys.Tab3):
			m.activeTab = TabAlerts
		case key.Matches(msg, keys.Refresh):
			return m, m.collect
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			for t := Tab(0); t < tabCount; t++ {
				if zone.Get(t.zoneID()).InBounds(msg) {
					m.activeTab = t
					break
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tickMsg:
		return m, m.collect

	case dataMsg:
		m.sample = msg.sample
		m.cpuHistory = msg.cpuHistory
		m.procs = msg.procs
		m.alertLines = msg.alertLines
		m.lastUpdated = time.Now()
		return m, m.tick()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	content := m.renderTabContent()
	footer := m.renderFooter()

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

// renderHeader renders the tab bar. Each tab is a bubblezone mark so the
// bar is mouse-clickable.
func (m Model) renderHeader() string {
	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		name := tabNames[t]
		style := styleInactiveTab
		if t == m.activeTab {
			style = styleActiveTab
		}
		tabs = append(tabs, zone.Mark(t.zoneID(), style.Render(name)))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return styleHeader.Width(m.width).Render(tabBar)
}

// renderTabContent delegates to the active tab renderer.
func (m Model) renderTabContent() string {
	contentHeight := m.height - 6
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch m.activeTab {
	case TabDashboard:
		content = m.renderDashboard(contentHeight)
	case TabProcesses:
		content = m.renderProcesses(contentHeight)
	case TabAlerts:
		content = m.renderAlerts(contentHeight)
	}

	return styleContent.Width(m.width).Render(content)
}

// renderFooter renders the help line and last updated timestamp.
func (m Model) renderFooter() string {
	help := "q: quit | tab: switch | 1-3: jump | r: refresh"

	var timestamp string
	if !m.lastUpdated.IsZero() {
		timestamp = fmt.Sprintf("  Updated: %s", m.lastUpdated.Format("15:04:05"))
	}

	return styleFooter.Width(m.width).Render(help + timestamp)
}
