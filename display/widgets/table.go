package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Alignment controls text alignment within a table column.
type Alignment int

const (
	// AlignLeft aligns text to the left (default).
	AlignLeft Alignment = iota
	// AlignRight aligns text to the right.
	AlignRight
)

// Column defines a single table column.
type Column struct {
	// Title is the header text.
	Title string
	// Width is the fixed character width. If 0, auto-calculated from content.
	Width int
	// Align controls text alignment within the column.
	Align Alignment
}

// TableConfig holds the configuration for rendering a table.
type TableConfig struct {
	// Columns defines the table structure.
	Columns []Column
	// Rows is the table data. Each row is a slice of cell strings.
	Rows [][]string
	// HeaderStyle is the lipgloss style for the header row.
	HeaderStyle lipgloss.Style
	// RowStyle is the lipgloss style for data rows.
	RowStyle lipgloss.Style
}

// DefaultTableConfig returns a TableConfig with sensible defaults.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		HeaderStyle: lipgloss.NewStyle().Bold(true),
		RowStyle:    lipgloss.NewStyle(),
	}
}

// tableSeparator joins columns.
const tableSeparator = "  "

// RenderTable renders a header, a rule, and the data rows.
func RenderTable(cfg TableConfig) string {
	if len(cfg.Columns) == 0 {
		return ""
	}

	widths := columnWidths(cfg.Columns, cfg.Rows)

	var lines []string

	headerCells := make([]string, len(cfg.Columns))
	for i, col := range cfg.Columns {
		headerCells[i] = padOrTruncate(col.Title, widths[i], AlignLeft)
	}
	lines = append(lines, cfg.HeaderStyle.Render(strings.Join(headerCells, tableSeparator)))

	ruleParts := make([]string, len(cfg.Columns))
	for i := range cfg.Columns {
		ruleParts[i] = strings.Repeat("─", widths[i])
	}
	lines = append(lines, strings.Join(ruleParts, tableSeparator))

	for _, row := range cfg.Rows {
		cells := make([]string, len(cfg.Columns))
		for i := range cfg.Columns {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			cells[i] = padOrTruncate(text, widths[i], cfg.Columns[i].Align)
		}
		lines = append(lines, cfg.RowStyle.Render(strings.Join(cells, tableSeparator)))
	}

	return strings.Join(lines, "\n")
}

// padOrTruncate fits a string to width with the given alignment.
func padOrTruncate(s string, width int, align Alignment) string {
	if width <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}

	padding := strings.Repeat(" ", width-len(runes))
	if align == AlignRight {
		return padding + s
	}
	return s + padding
}

// columnWidths resolves each column width: fixed when set, otherwise the
// widest of the header and all cells.
func columnWidths(cols []Column, rows [][]string) []int {
	widths := make([]int, len(cols))
	for i, col := range cols {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		w := len([]rune(col.Title))
		for _, row := range rows {
			if i < len(row) {
				if l := len([]rune(row[i])); l > w {
					w = l
				}
			}
		}
		if w == 0 {
			w = 1
		}
		widths[i] = w
	}
	return widths
}
