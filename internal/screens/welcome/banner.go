package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/deutschlern/internal/ui/theme"
)

const bannerText = "D E U T S C H L E R N"

var stripeColors = []string{"#111111", "#DD0000", "#FFCE00"}

// RenderBanner returns the app name over a tricolor stripe. fill in [0, 1]
// controls how much of the stripe is drawn.
func RenderBanner(width int, fill float64) string {
	stripeWidth := min(lipgloss.Width(bannerText)+8, width)
	n := int(float64(stripeWidth) * max(0, min(1, fill)))

	lines := make([]string, 0, len(stripeColors)+2)
	for _, c := range stripeColors {
		bar := lipgloss.NewStyle().
			Background(lipgloss.Color(c)).
			Render(strings.Repeat(" ", n))
		lines = append(lines, bar+strings.Repeat(" ", stripeWidth-n))
	}
	lines = append(lines, "", lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(bannerText))
	return strings.Join(lines, "\n")
}
