package components

import (
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/deutschlern/internal/ui/theme"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`(^|[^*])\*([^*\s][^*]*?)\*`)
	tableSep = regexp.MustCompile(`^\|?\s*:?-{3,}`)
)

// RenderMarkdown styles the subset of markdown the lessons use: headings,
// bullet lists, bold and italic spans, rules and pipe tables. Text is
// wrapped to width.
func RenderMarkdown(md string, width int) string {
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(width)
	h1 := theme.Heading.Underline(true)
	h2 := theme.Heading
	h3 := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 1)))

	var out []string
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### "):
			out = append(out, h3.Render(inline(strings.TrimPrefix(trimmed, "### "))))
		case strings.HasPrefix(trimmed, "## "):
			out = append(out, "", h2.Render(inline(strings.TrimPrefix(trimmed, "## "))))
		case strings.HasPrefix(trimmed, "# "):
			out = append(out, h1.Render(inline(strings.TrimPrefix(trimmed, "# "))))
		case trimmed == "---" || trimmed == "***":
			out = append(out, rule)
		case tableSep.MatchString(trimmed):
			continue
		case strings.HasPrefix(trimmed, "|"):
			cells := strings.Split(strings.Trim(trimmed, "|"), "|")
			for i := range cells {
				cells[i] = strings.TrimSpace(cells[i])
			}
			out = append(out, body.Render("  "+inline(strings.Join(cells, "  │  "))))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			indent := strings.Repeat(" ", len(line)-len(strings.TrimLeft(line, " ")))
			out = append(out, body.Render(indent+"• "+inline(trimmed[2:])))
		default:
			out = append(out, body.Render(inline(line)))
		}
	}
	return strings.Join(out, "\n")
}

func inline(s string) string {
	s = boldRe.ReplaceAllStringFunc(s, func(m string) string {
		return lipgloss.NewStyle().Bold(true).Render(boldRe.FindStringSubmatch(m)[1])
	})
	return italicRe.ReplaceAllString(s, "$1$2")
}
