package components

import (
	"image/color"

	"charm.land/bubbles/v2/spinner"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/deutschlern/internal/ui/theme"
)

// Centered renders text centered across width in the given color.
func Centered(text string, fg color.Color, bold bool, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Bold(bold).
		Render(text)
}

// NewSpinner returns the spinner used while waiting on the model.
func NewSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
	)
}

// Loading renders a spinner line with a message.
func Loading(s spinner.Model, msg string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n" + s.View() + " " + msg)
}

// Notice renders an inline error or warning line.
func Notice(text string, width int) string {
	return Centered("⚠ "+text, theme.Error, false, width)
}

// Panel wraps content in a rounded card no wider than maxWidth and centers
// it horizontally.
func Panel(content string, width, maxWidth int) string {
	w := min(width-4, maxWidth)
	if w < 20 {
		w = 20
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(w).
		Padding(1, 2).
		Render(content)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}
