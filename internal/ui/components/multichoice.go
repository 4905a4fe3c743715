package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/deutschlern/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Hints, when set, are shown
// next to the option with the same index. Once revealed, the correct option
// is highlighted and the chosen one marked if it was wrong.
type MultiChoice struct {
	Options  []string
	Hints    []string
	Selected int

	revealed bool
	chosen   int
	correct  string
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options, hints []string) MultiChoice {
	return MultiChoice{Options: options, Hints: hints, chosen: -1}
}

// Update handles arrow navigation and number keys. It returns the chosen
// option and true when the learner commits a choice.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, string, bool) {
	if m.revealed || len(m.Options) == 0 {
		return m, "", false
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, "", false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.chosen = m.Selected
		return m, m.Options[m.Selected], true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(m.Options) {
				m.Selected = i
				m.chosen = i
				return m, m.Options[i], true
			}
		}
	}
	return m, "", false
}

// Reveal marks correct as the right answer.
func (m *MultiChoice) Reveal(correct string) {
	m.revealed = true
	m.correct = correct
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case m.revealed && opt == m.correct:
			line = theme.Correct.Render(line + "  ✓")
		case m.revealed && i == m.chosen:
			line = theme.Incorrect.Render(line + "  ✗")
		case m.revealed:
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
		case i == m.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		if i < len(m.Hints) && m.Hints[i] != "" {
			line += "  " + theme.Hint.Render("("+m.Hints[i]+")")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
