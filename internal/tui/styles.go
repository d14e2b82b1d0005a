package tui

import "github.com/charmbracelet/lipgloss"

var (
	orange    = lipgloss.Color("#F97316")
	gray      = lipgloss.Color("#A9A9A9")
	darkGray  = lipgloss.Color("#5A5A5A")
	green     = lipgloss.Color("#00FF7F")
	lightBlue = lipgloss.Color("#7DD3FC")
	red       = lipgloss.Color("#FF4757")

	titleStyle = lipgloss.NewStyle().
			Foreground(orange).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(gray)

	labelStyle = lipgloss.NewStyle().
			Foreground(lightBlue).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	locationStyle = lipgloss.NewStyle().
			Foreground(darkGray).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(red).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(darkGray).
			Padding(0, 1)

	focusedSectionStyle = sectionStyle.
				BorderForeground(orange)
)
