package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorMuted  = lipgloss.Color("8")
	colorAccent = lipgloss.Color("4")
	colorError  = lipgloss.Color("1")
	colorOK     = lipgloss.Color("2")

	labelStyle     = lipgloss.NewStyle()
	boldStyle      = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	focusedStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	toggleOnStyle  = lipgloss.NewStyle().Foreground(colorOK)
	toggleOffStyle = lipgloss.NewStyle().Foreground(colorMuted)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)
	buttonFocusedStyle = buttonStyle.BorderForeground(colorAccent).Bold(true)

	textBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(colorMuted)
	errorBlockStyle = textBlockStyle.BorderForeground(colorError)
)

// textStyle maps a description's style attribute onto a lipgloss style.
func textStyle(name string) lipgloss.Style {
	switch name {
	case "bold", "title":
		return boldStyle
	case "muted", "dim":
		return mutedStyle
	case "error":
		return errorStyle
	default:
		return labelStyle
	}
}
