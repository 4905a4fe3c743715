// Package assistant is the voice assistant screen: the learner asks about a
// German word or phrase by typing or speaking and the answer is read aloud.
package assistant

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

const (
	sourceMic   = "mic"
	sourceVoice = "voice"
	inputLimit  = 300
)

type answerMsg struct {
	owner  int64
	ticket uint64
	query  string
	answer string
	err    error
}

type AssistantScreen struct {
	id     int64
	svc    screen.Services
	target content.TargetLanguage

	input   components.TextInput
	epoch   content.Epoch
	loading bool
	spin    spinner.Model

	mic       *screen.SpeechBridge
	voice     *screen.SpeechBridge
	listening bool
	speaking  bool
	notice    string

	query  string
	answer string
	err    error
}

var _ screen.Screen = (*AssistantScreen)(nil)
var _ screen.KeyHintProvider = (*AssistantScreen)(nil)

func New(svc screen.Services) *AssistantScreen {
	return &AssistantScreen{
		id:     screen.NewID(),
		svc:    svc,
		target: content.LanguageEnglish,
		input:  components.NewTextInput("Ask about a German word or phrase...", inputLimit),
		spin:   components.NewSpinner(),
		mic:    screen.NewSpeechBridge(sourceMic),
		voice:  screen.NewSpeechBridge(sourceVoice),
	}
}

func (s *AssistantScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.mic.Wait(), s.voice.Wait())
}

func (s *AssistantScreen) Title() string {
	return "Voice Assistant"
}

func (s *AssistantScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "Ctrl+L", Description: "Speak"},
		{Key: "Tab", Description: "English/Tamil"},
	}
	if s.answer != "" {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "Repeat"})
	}
	return hints
}

func (s *AssistantScreen) ask(query string) tea.Cmd {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	s.svc.Synthesizer.Cancel()
	ticket := s.epoch.Begin()
	s.loading = true
	s.notice = ""
	id, orch, target := s.id, s.svc.Orchestrator, s.target
	return tea.Batch(func() tea.Msg {
		answer, err := orch.Ask(context.Background(), query, target)
		return answerMsg{owner: id, ticket: ticket, query: query, answer: answer, err: err}
	}, s.spin.Tick)
}

func (s *AssistantScreen) speak() {
	if s.answer == "" {
		return
	}
	if err := s.svc.Synthesizer.Speak(context.Background(), s.answer, s.svc.Voice, s.voice.Synthesis()); err != nil {
		s.notice = err.Error()
	}
}

func (s *AssistantScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		if msg.owner != s.id || !s.epoch.IsCurrent(msg.ticket) {
			return s, nil
		}
		s.loading = false
		s.query, s.answer, s.err = msg.query, msg.answer, msg.err
		if msg.err != nil {
			s.svc.Log.Warn("assistant request failed", "error", msg.err)
			return s, nil
		}
		s.input.Reset()
		s.speak()
		return s, nil

	case screen.SpeechMsg:
		switch msg.Source {
		case sourceMic:
			return s, tea.Batch(s.handleMic(msg), s.mic.Wait())
		case sourceVoice:
			s.handleVoice(msg)
			return s, s.voice.Wait()
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
			return s, s.ask(s.input.Value())
		case "tab":
			if s.target == content.LanguageEnglish {
				s.target = content.LanguageTamil
			} else {
				s.target = content.LanguageEnglish
			}
			return s, nil
		case "ctrl+l":
			s.toggleListening()
			return s, nil
		case "ctrl+r":
			s.speak()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *AssistantScreen) toggleListening() {
	if s.listening {
		s.svc.Recognizer.Stop()
		return
	}
	s.svc.Synthesizer.Cancel()
	s.notice = ""
	if err := s.svc.Recognizer.Start(context.Background(), s.mic.Recognition()); err != nil {
		s.notice = err.Error()
	}
}

func (s *AssistantScreen) handleMic(msg screen.SpeechMsg) tea.Cmd {
	switch msg.Event {
	case screen.SpeechStarted:
		s.listening = true
	case screen.SpeechResult:
		s.listening = false
		return s.ask(msg.Text)
	case screen.SpeechFailed:
		s.listening = false
		if msg.Err != nil {
			s.notice = msg.Err.Error()
		}
	case screen.SpeechEnded:
		s.listening = false
	}
	return nil
}

func (s *AssistantScreen) handleVoice(msg screen.SpeechMsg) {
	switch msg.Event {
	case screen.SpeechStarted:
		s.speaking = true
	case screen.SpeechFailed:
		if msg.Err != nil {
			s.notice = msg.Err.Error()
		}
		s.speaking = false
	case screen.SpeechEnded:
		s.speaking = false
	}
}

func (s *AssistantScreen) View(width, height int) string {
	panelWidth := min(width-4, 80)
	s.input.SetWidth(panelWidth - 8)

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Answers in " + string(s.target)))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.listening:
		b.WriteString(theme.Incorrect.Render("🔴 Listening... press Ctrl+L to stop."))
	case s.loading:
		b.WriteString(s.spin.View() + " Thinking...")
	case s.err != nil:
		b.WriteString(theme.Incorrect.Render(content.UserMessage(s.err)))
	case s.answer != "":
		b.WriteString(theme.Hint.Render("You asked: " + s.query))
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Width(panelWidth - 6).Render(s.answer))
	default:
		b.WriteString(theme.Hint.Render(`Try "Was bedeutet Feierabend?"`))
	}

	if s.speaking {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render("🔊 Speaking..."))
	}
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(s.notice))
	}

	panel := theme.Card.Width(panelWidth).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, panel)
}

// Close stops capture and playback and drops the pending answer.
func (s *AssistantScreen) Close() {
	s.epoch.Invalidate()
	s.svc.Recognizer.Abort()
	s.svc.Synthesizer.Cancel()
	s.mic.Close()
	s.voice.Close()
}
