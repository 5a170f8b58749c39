// Package formatter renders command output for the terminal.
package formatter

import "github.com/charmbracelet/lipgloss"

var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorDim    = lipgloss.Color("#928374")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// Status colors a run status label.
func Status(status string) string {
	switch status {
	case "ok":
		return StyleGreen.Render(status)
	case "partial", "empty":
		return StyleYellow.Render(status)
	case "failed":
		return StyleRed.Render(status)
	default:
		return status
	}
}
