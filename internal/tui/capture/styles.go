package capture

import "github.com/charmbracelet/lipgloss"

// Colors used in the capture prompt.
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#9CA3AF") // Light gray
)

// Styles holds the styles for the capture prompt.
type Styles struct {
	Title      lipgloss.Style
	BadgeEmpty lipgloss.Style
	BadgeQueue lipgloss.Style
	Saved      lipgloss.Style
	Queued     lipgloss.Style
	Rejected   lipgloss.Style
	Warning    lipgloss.Style
	Help       lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		BadgeEmpty: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1),
		BadgeQueue: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorWarning).
			Padding(0, 1),
		Saved: lipgloss.NewStyle().
			Foreground(ColorSuccess),
		Queued: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Rejected: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),
	}
}
