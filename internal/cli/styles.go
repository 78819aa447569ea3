package cli

import "github.com/charmbracelet/lipgloss"

// Output styles. lipgloss drops the colors when stdout is not a terminal.
var (
	styleSaved    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	styleQueued   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	styleRejected = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	styleMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)
