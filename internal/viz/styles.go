// Package viz renders diagnostics to the terminal: lipgloss-styled panels
// and asciigraph plots of the energy series.
package viz

import "github.com/charmbracelet/lipgloss"

var (
	HeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	StatsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	CanvasStyle = lipgloss.NewStyle().Padding(1, 2)
	GraphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	HelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// StatLine renders one aligned "label value" row.
func StatLine(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
