package popup

import "github.com/charmbracelet/lipgloss"

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	mutedGray  = lipgloss.Color("#6B7280")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 2)

	checkboxStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	successStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	busyStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	containerStyle = lipgloss.NewStyle().
			Padding(1, 2)
)
