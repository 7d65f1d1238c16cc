package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.ANSIColor(termenv.ANSIBrightGreen)).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7af00")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)

	// SnippetStyle renders offending source lines below an error.
	SnippetStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(lipgloss.Color("#767676"))

	PathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3a96dd"))
)

// Render applies style only when colorize is set.
func Render(style lipgloss.Style, text string, colorize bool) string {
	if !colorize {
		return text
	}
	return style.Render(text)
}
