package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors. Terminals without true color fall back to the nearest ANSI shade.
const (
	accent = lipgloss.Color("#7D56F4")
	green  = lipgloss.Color("#04B575")
	red    = lipgloss.Color("#FF4F4F")
	amber  = lipgloss.Color("#FFA500")
	muted  = lipgloss.Color("#626262")
)

var theme = newTheme()

// Theme names a style for each kind of text the show browser renders.
type Theme struct {
	heading  lipgloss.Style // prompt and import headings, list titles
	added    lipgloss.Style // successful import
	outcome  lipgloss.Style // not found and already exists
	failure  lipgloss.Style // load and import errors
	overview lipgloss.Style // show synopsis above the episode list
	spinner  lipgloss.Style
}

func newTheme() Theme {
	return Theme{
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5")).Background(accent).Padding(0, 1),
		added:    lipgloss.NewStyle().Bold(true).Foreground(green),
		outcome:  lipgloss.NewStyle().Foreground(amber),
		failure:  lipgloss.NewStyle().Bold(true).Foreground(red),
		overview: lipgloss.NewStyle().Italic(true).Foreground(muted).Width(80),
		spinner:  lipgloss.NewStyle().Foreground(accent),
	}
}
