// Package translate is the German translator screen.
package translate

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

const inputLimit = 500

type translatedMsg struct {
	owner  int64
	ticket uint64
	source string
	text   string
	err    error
}

// TranslateScreen translates German text into English or Tamil.
type TranslateScreen struct {
	id     int64
	svc    screen.Services
	target content.TargetLanguage

	input   components.TextInput
	epoch   content.Epoch
	loading bool
	spin    spinner.Model

	source string
	result string
	err    error
}

var _ screen.Screen = (*TranslateScreen)(nil)
var _ screen.KeyHintProvider = (*TranslateScreen)(nil)

// New creates the translator.
func New(svc screen.Services) *TranslateScreen {
	return &TranslateScreen{
		id:     screen.NewID(),
		svc:    svc,
		target: content.LanguageEnglish,
		input:  components.NewTextInput("Type German text...", inputLimit),
		spin:   components.NewSpinner(),
	}
}

func (s *TranslateScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *TranslateScreen) Title() string {
	return "Translator"
}

func (s *TranslateScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Translate"},
		{Key: "Tab", Description: "English/Tamil"},
	}
}

func (s *TranslateScreen) translate() tea.Cmd {
	text := s.input.Value()
	if text == "" {
		return nil
	}
	ticket := s.epoch.Begin()
	s.loading = true
	id, orch, target := s.id, s.svc.Orchestrator, s.target
	return tea.Batch(func() tea.Msg {
		out, err := orch.Translate(context.Background(), text, target)
		return translatedMsg{owner: id, ticket: ticket, source: text, text: out, err: err}
	}, s.spin.Tick)
}

func (s *TranslateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case translatedMsg:
		if msg.owner != s.id || !s.epoch.IsCurrent(msg.ticket) {
			return s, nil
		}
		s.loading = false
		s.source, s.result, s.err = msg.source, msg.text, msg.err
		if msg.err != nil {
			s.svc.Log.Warn("translation failed", "target", s.target, "error", msg.err)
		}
		return s, nil

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return s, s.translate()
		case "tab":
			if s.target == content.LanguageEnglish {
				s.target = content.LanguageTamil
			} else {
				s.target = content.LanguageEnglish
			}
			if s.source != "" && !s.loading {
				return s, s.translate()
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TranslateScreen) View(width, height int) string {
	panelWidth := min(width-4, 80)
	s.input.SetWidth(panelWidth - 8)

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("German → " + string(s.target)))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString(s.spin.View() + " Translating...")
	case s.err != nil:
		b.WriteString(theme.Incorrect.Render(content.UserMessage(s.err)))
	case s.result != "":
		b.WriteString(theme.Hint.Render(s.source))
		b.WriteString("\n")
		b.WriteString(theme.Heading.Width(panelWidth - 6).Render(s.result))
	default:
		b.WriteString(theme.Hint.Render("Press Tab to switch the target language."))
	}

	panel := theme.Card.Width(panelWidth).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, panel)
}

// Close discards the translation in flight.
func (s *TranslateScreen) Close() {
	s.epoch.Invalidate()
}
