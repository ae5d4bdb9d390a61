package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the TUI.
var (
	// Navigation pane styles.
	navBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")) // gray

	navFocusedBorderStyle = navBorderStyle.BorderForeground(lipgloss.Color("4"))          // blue
	categoryStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))  // cyan
	brokenCategoryStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))  // red
	moduleStyle           = lipgloss.NewStyle().PaddingLeft(1)
	cursorStyle           = lipgloss.NewStyle().PaddingLeft(1).Bold(true).Reverse(true)
	activeModuleStyle     = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("4")) // blue

	// Panel pane styles.
	panelBorderStyle        = navBorderStyle
	panelFocusedBorderStyle = navFocusedBorderStyle
	panelTitleStyle         = lipgloss.NewStyle().Bold(true)
	panelDescStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray

	// General utility styles.
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray/dim
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))            // red
	dryRunStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")) // yellow
)

// Tree-drawing characters for the list command.
const (
	treeCorner = "└ "
	treeTee    = "├ "
)
