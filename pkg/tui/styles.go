package tui

import "github.com/charmbracelet/lipgloss"

// Color palette, matching pkg/present/terminal.go's non-TUI presentation
// layer so the CLI's colors are consistent whether or not the TUI is used.
var (
	primaryColor   = lipgloss.Color("#FF6B9D")
	secondaryColor = lipgloss.Color("#C792EA")
	mutedColor     = lipgloss.Color("#6C7086")
	errorColor     = lipgloss.Color("#F38BA8")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)
