// Package vocab is the vocabulary flashcard screen.
package vocab

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/screen"
	"github.com/abhisek/deutschlern/internal/ui/components"
	"github.com/abhisek/deutschlern/internal/ui/layout"
	"github.com/abhisek/deutschlern/internal/ui/theme"
)

type cardMsg struct {
	owner  int64
	ticket uint64
	card   *content.VocabularyCard
	err    error
}

// VocabScreen shows one flashcard at a time. The front carries the German
// word, the back its translation and an example sentence.
type VocabScreen struct {
	id       int64
	svc      screen.Services
	level    string
	category content.VocabularyCategory

	epoch   content.Epoch
	card    *content.VocabularyCard
	err     error
	flipped bool
	spin    spinner.Model
}

var _ screen.Screen = (*VocabScreen)(nil)
var _ screen.KeyHintProvider = (*VocabScreen)(nil)

// New creates the flashcard screen. Words shown in earlier visits to this
// level are forgotten so the session starts fresh.
func New(svc screen.Services, level string) *VocabScreen {
	svc.Orchestrator.ClearHistory(level, content.SkillVocabulary)
	return &VocabScreen{
		id:       screen.NewID(),
		svc:      svc,
		level:    level,
		category: content.CategoryNoun,
		spin:     components.NewSpinner(),
	}
}

func (s *VocabScreen) Init() tea.Cmd {
	return s.next()
}

func (s *VocabScreen) Title() string {
	return "Vocabulary · " + s.level
}

func (s *VocabScreen) KeyHints() []layout.KeyHint {
	if s.loading() {
		return []layout.KeyHint{{Key: "Tab", Description: "Nouns/Adjectives"}}
	}
	return []layout.KeyHint{
		{Key: "Space/F", Description: "Flip"},
		{Key: "N", Description: "Next word"},
		{Key: "Tab", Description: "Nouns/Adjectives"},
	}
}

func (s *VocabScreen) loading() bool {
	return s.card == nil && s.err == nil
}

func (s *VocabScreen) next() tea.Cmd {
	ticket := s.epoch.Begin()
	s.card, s.err, s.flipped = nil, nil, false
	id, orch, level, category := s.id, s.svc.Orchestrator, s.level, s.category
	return tea.Batch(func() tea.Msg {
		card, err := orch.GenerateVocabulary(context.Background(), level, category)
		return cardMsg{owner: id, ticket: ticket, card: card, err: err}
	}, s.spin.Tick)
}

func (s *VocabScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case cardMsg:
		if msg.owner != s.id || !s.epoch.IsCurrent(msg.ticket) {
			return s, nil
		}
		if msg.err != nil {
			s.svc.Log.Warn("vocabulary generation failed", "level", s.level, "category", s.category, "error", msg.err)
		}
		s.card, s.err = msg.card, msg.err
		return s, nil

	case spinner.TickMsg:
		if !s.loading() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab":
			if s.category == content.CategoryNoun {
				s.category = content.CategoryAdjective
			} else {
				s.category = content.CategoryNoun
			}
			return s, s.next()
		case "n", "r":
			if !s.loading() {
				return s, s.next()
			}
		case "f", "space", "enter":
			if s.card != nil {
				s.flipped = !s.flipped
			}
		}
	}
	return s, nil
}

func (s *VocabScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(s.renderTabs(width))
	b.WriteString("\n\n")

	switch {
	case s.err != nil:
		md := components.RenderMarkdown(content.ErrorMarkdown(s.err), 60)
		b.WriteString(components.Panel(md, width, 70))
		b.WriteString("\n")
		b.WriteString(components.Centered("Press N to try again.", theme.TextDim, false, width))
	case s.card == nil:
		b.WriteString(components.Loading(s.spin, "Picking a word...", width))
	default:
		b.WriteString(s.renderCard(width))
	}
	return b.String()
}

func (s *VocabScreen) renderTabs(width int) string {
	tab := func(label string, active bool) string {
		if active {
			return theme.Selected.Render(" " + label + " ")
		}
		return theme.Unselected.Render(" " + label + " ")
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		tab("Nouns", s.category == content.CategoryNoun),
		"  ",
		tab("Adjectives", s.category == content.CategoryAdjective),
	)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
}

func (s *VocabScreen) renderCard(width int) string {
	cardWidth := min(width-4, 60)
	card := theme.Card.Width(cardWidth).Align(lipgloss.Center)

	var body string
	if !s.flipped {
		body = theme.Heading.Render(s.card.Word) + "\n\n" +
			theme.Hint.Render("Press Space to reveal")
	} else {
		body = theme.Heading.Render(s.card.Translation) + "\n\n" +
			theme.Body.Render(s.card.ExampleSentence) + "\n" +
			theme.Hint.Render(s.card.ExampleTranslation)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card.Render(body))
}

// Close discards the request in flight.
func (s *VocabScreen) Close() {
	s.epoch.Invalidate()
}
