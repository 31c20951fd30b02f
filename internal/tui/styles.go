package tui

import "github.com/charmbracelet/lipgloss"

// Browser styles.
//
//nolint:gochecknoglobals // Shared read-only lipgloss styles.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	ActivePage    = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	PageStyle     = lipgloss.NewStyle().Padding(0, 1)
	DisabledStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	SummaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
