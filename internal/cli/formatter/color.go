package formatter

import (
	"hos-logbook-service/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle colours a duty status the way paper log grids shade rows.
func StatusStyle(status string) lipgloss.Style {
	switch domain.DutyStatus(status) {
	case domain.StatusDriving:
		return StyleGreen
	case domain.StatusOnDutyNotDriving:
		return StyleYellow
	case domain.StatusSleeperBerth:
		return StylePurple
	case domain.StatusOffDuty:
		return StyleBlue
	default:
		return StyleDim
	}
}
