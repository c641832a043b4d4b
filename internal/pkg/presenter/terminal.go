package presenter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
	"github.com/anicoll/traci-dashboard/internal/pkg/store"
)

var (
	Primary = lipgloss.Color("#4636f5")
	Muted   = lipgloss.Color("#8b8b8b")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	emptyStyle  = lipgloss.NewStyle().Italic(true).Foreground(Muted)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

var columnWidths = []int{21, 13, 10, 8}

// RenderTable draws records as an aligned table for the terminal.
func RenderTable(records model.Records) string {
	if len(records) == 0 {
		return emptyStyle.Render(EmptyMessage)
	}

	lines := []string{renderRow(headerStyle, store.Header)}
	for _, r := range records {
		lines = append(lines, renderRow(lipgloss.NewStyle(), []string{
			r.Timestamp.Format(store.TimestampLayout),
			FormatReading(r.Temperature),
			FormatReading(r.Humidity),
			FormatReading(r.Oxygen),
		}))
	}
	return strings.Join(lines, "\n")
}

func renderRow(style lipgloss.Style, cells []string) string {
	rendered := make([]string, len(cells))
	for i, c := range cells {
		rendered[i] = cellStyle.Copy().Width(columnWidths[i]).Render(style.Render(c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
