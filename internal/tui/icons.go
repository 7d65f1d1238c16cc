// Package tui provides shared terminal output helpers.
package tui

func SuccessIcon(colorize bool) string {
	return Render(SuccessStyle, "✅", colorize)
}

func WarningIcon(colorize bool) string {
	return Render(WarningStyle, "⚠️", colorize)
}

func ErrorIcon(colorize bool) string {
	return Render(ErrorStyle, "❌", colorize)
}
