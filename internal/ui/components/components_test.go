package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoiceUpdate(t *testing.T) {
	tests := []struct {
		name   string
		keys   []tea.KeyPressMsg
		want   string
		chosen bool
	}{
		{"number key", []tea.KeyPressMsg{key('2')}, "bist", true},
		{"number out of range", []tea.KeyPressMsg{key('7')}, "", false},
		{"navigate then enter", []tea.KeyPressMsg{key('j'), key('j'), {Code: tea.KeyEnter}}, "ist", true},
		{"up stops at top", []tea.KeyPressMsg{key('k'), {Code: tea.KeyEnter}}, "bin", true},
		{"down stops at bottom", []tea.KeyPressMsg{key('j'), key('j'), key('j'), {Code: tea.KeyEnter}}, "ist", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMultiChoice([]string{"bin", "bist", "ist"}, nil)
			var (
				got    string
				chosen bool
			)
			for _, k := range tt.keys {
				m, got, chosen = m.Update(k)
			}
			if got != tt.want || chosen != tt.chosen {
				t.Errorf("got (%q, %v), want (%q, %v)", got, chosen, tt.want, tt.chosen)
			}
		})
	}
}

func TestMultiChoiceRevealLocks(t *testing.T) {
	m := NewMultiChoice([]string{"Brot", "Milch"}, nil)
	m, _, _ = m.Update(key('2'))
	m.Reveal("Brot")
	m.Hints = []string{"bread", "milk"}

	if _, _, chosen := m.Update(key('1')); chosen {
		t.Error("revealed choice must ignore input")
	}

	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Brot  ✓") {
		t.Errorf("correct option not marked:\n%s", view)
	}
	if !strings.Contains(view, "Milch  ✗") {
		t.Errorf("wrong choice not marked:\n%s", view)
	}
	if !strings.Contains(view, "(bread)") {
		t.Errorf("hints not shown:\n%s", view)
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := strings.Join([]string{
		"# Lesen",
		"Ein **kurzer** Text über *Berlin*.",
		"- erster Punkt",
		"| Deutsch | English |",
		"|---|---|",
		"| Haus | house |",
		"---",
	}, "\n")

	out := ansi.Strip(RenderMarkdown(md, 60))

	for _, want := range []string{"Lesen", "Ein kurzer Text über Berlin.", "• erster Punkt", "Haus  │  house", "───"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"**", "# ", "|---"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output still contains markup %q:\n%s", unwanted, out)
		}
	}
}

func TestProgressBarPercent(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 10, 0},
		{5, 10, 0.5},
		{12, 10, 1},
		{3, 0, 0},
	}
	for _, tt := range tests {
		p := ProgressBar{Done: tt.done, Total: tt.total}
		if got := p.Percent(); got != tt.want {
			t.Errorf("Percent(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
	if view := ansi.Strip(ProgressBar{Done: 3, Total: 10, Width: 30}.View()); !strings.HasSuffix(view, "3/10") {
		t.Errorf("counter missing: %q", view)
	}
}
