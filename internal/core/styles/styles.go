// Package styles provides the lipgloss styles used for CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary lipgloss.TerminalColor
	Muted   lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
}

// Style exports. Rebuilt by SetTheme and Disable, which also switch
// Markdown rendering on and off.
var (
	// Priority styles, keyed by the stored priority (1 normal .. 4 urgent).
	PriorityNormalStyle lipgloss.Style
	PriorityMediumStyle lipgloss.Style
	PriorityHighStyle   lipgloss.Style
	PriorityUrgentStyle lipgloss.Style

	DueStyle     lipgloss.Style
	OverdueStyle lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	HeaderStyle  lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	PriorityNormalStyle = lipgloss.NewStyle()
	PriorityMediumStyle = lipgloss.NewStyle().Foreground(p.Primary)
	PriorityHighStyle = lipgloss.NewStyle().Foreground(p.Warning)
	PriorityUrgentStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)

	DueStyle = lipgloss.NewStyle().Foreground(p.Muted)
	OverdueStyle = lipgloss.NewStyle().Foreground(p.Error)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	HeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)

	markdownPalette = &p
}

// Disable replaces every style with an unstyled one.
func Disable() {
	plain := lipgloss.NewStyle()

	PriorityNormalStyle = plain
	PriorityMediumStyle = plain
	PriorityHighStyle = plain
	PriorityUrgentStyle = plain

	DueStyle = plain
	OverdueStyle = plain
	SuccessStyle = plain
	ErrorStyle = plain
	HeaderStyle = plain

	markdownPalette = nil
}

// Priority returns the style for a stored priority value. Unknown values
// render like normal priority.
func Priority(p int) lipgloss.Style {
	switch p {
	case 2:
		return PriorityMediumStyle
	case 3:
		return PriorityHighStyle
	case 4:
		return PriorityUrgentStyle
	default:
		return PriorityNormalStyle
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
