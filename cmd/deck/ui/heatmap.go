package ui

import (
	"fmt"
	"strings"

	"careerdeck/internal/heatmap"

	"github.com/charmbracelet/lipgloss"
)

var weekdayLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

// RenderHeatmap draws the activity grid, one column per week. When the grid
// is wider than width the oldest weeks are cut off.
func (s Styles) RenderHeatmap(cells []heatmap.Cell, width int) string {
	weeks := heatmap.Weeks(cells)
	if len(weeks) == 0 {
		return s.Muted.Render("No activity yet")
	}

	const labelWidth = 4
	if cols := width - labelWidth; cols > 0 && cols < len(weeks) {
		weeks = weeks[len(weeks)-cols:]
	}

	var b strings.Builder
	for row := 0; row < 7; row++ {
		b.WriteString(s.Muted.Render(fmt.Sprintf("%-*s", labelWidth, weekdayLabels[row])))
		for _, week := range weeks {
			c := week[row]
			if c == nil {
				b.WriteString(" ")
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(HeatLevels[c.Level]).Render("■"))
		}
		if row < 6 {
			b.WriteString("\n")
		}
	}

	hours, active := heatmap.Totals(cells)
	legend := s.Muted.Render("Less ")
	for _, c := range HeatLevels {
		legend += lipgloss.NewStyle().Foreground(c).Render("■")
	}
	legend += s.Muted.Render(fmt.Sprintf(" More   %d active days, %s", active, FormatHours(hours)))
	return b.String() + "\n" + legend
}
