// Package speaking is the pronunciation practice screen.
package speaking

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/screen"
	practice "github.com/abhisek/deutschlern/internal/speaking"
	"github.com/abhisek/deutschlern/internal/ui/components"
	"github.com/abhisek/deutschlern/internal/ui/layout"
	"github.com/abhisek/deutschlern/internal/ui/theme"
)

const (
	sourceMic   = "mic"
	sourceVoice = "voice"
)

type sentenceMsg struct {
	owner  int64
	ticket uint64
	item   *content.SpeakingItem
	err    error
}

type analyzedMsg struct {
	owner    int64
	ticket   uint64
	feedback *content.PronunciationFeedback
	err      error
}

// SpeakingScreen shows a sentence to read aloud, records the learner and
// shows word-by-word pronunciation feedback.
type SpeakingScreen struct {
	id    int64
	svc   screen.Services
	level string

	sentences content.Epoch
	analyses  content.Epoch
	item      *content.SpeakingItem
	genErr    error
	machine   *practice.Machine

	mic     *screen.SpeechBridge
	voice   *screen.SpeechBridge
	playing bool
	notice  string
	spin    spinner.Model
}

var _ screen.Screen = (*SpeakingScreen)(nil)
var _ screen.KeyHintProvider = (*SpeakingScreen)(nil)

// New creates the speaking practice screen for level.
func New(svc screen.Services, level string) *SpeakingScreen {
	return &SpeakingScreen{
		id:      screen.NewID(),
		svc:     svc,
		level:   level,
		machine: practice.New(""),
		mic:     screen.NewSpeechBridge(sourceMic),
		voice:   screen.NewSpeechBridge(sourceVoice),
		spin:    components.NewSpinner(),
	}
}

func (s *SpeakingScreen) Init() tea.Cmd {
	return tea.Batch(s.nextSentence(), s.mic.Wait(), s.voice.Wait())
}

func (s *SpeakingScreen) Title() string {
	return "Speaking · " + s.level
}

func (s *SpeakingScreen) KeyHints() []layout.KeyHint {
	if s.item == nil {
		if s.genErr != nil {
			return []layout.KeyHint{{Key: "N", Description: "Try again"}}
		}
		return nil
	}
	switch s.machine.State() {
	case practice.StateIdle:
		return []layout.KeyHint{
			{Key: "Space", Description: "Record"},
			{Key: "P", Description: "Hear it"},
			{Key: "N", Description: "New sentence"},
		}
	case practice.StateListening:
		return []layout.KeyHint{{Key: "Space", Description: "Stop"}}
	case practice.StateFeedback:
		return []layout.KeyHint{
			{Key: "T", Description: "Try again"},
			{Key: "N", Description: "New sentence"},
		}
	}
	return nil
}

func (s *SpeakingScreen) nextSentence() tea.Cmd {
	s.svc.Recognizer.Abort()
	s.analyses.Invalidate()
	s.item, s.genErr = nil, nil
	s.notice = ""
	s.machine.SetSentence("")

	ticket := s.sentences.Begin()
	id, orch, level := s.id, s.svc.Orchestrator, s.level
	return tea.Batch(func() tea.Msg {
		item, err := orch.GenerateSpeaking(context.Background(), level)
		return sentenceMsg{owner: id, ticket: ticket, item: item, err: err}
	}, s.spin.Tick)
}

func (s *SpeakingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sentenceMsg:
		if msg.owner != s.id || !s.sentences.IsCurrent(msg.ticket) {
			return s, nil
		}
		if msg.err != nil {
			s.svc.Log.Warn("speaking sentence generation failed", "level", s.level, "error", msg.err)
			s.genErr = msg.err
			return s, nil
		}
		s.item = msg.item
		s.machine.SetSentence(msg.item.Sentence)
		return s, nil

	case analyzedMsg:
		if msg.owner != s.id || !s.analyses.IsCurrent(msg.ticket) {
			return s, nil
		}
		if msg.err != nil {
			s.svc.Log.Warn("pronunciation analysis failed", "error", msg.err)
		}
		s.machine.Analyzed(msg.feedback, msg.err)
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
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *SpeakingScreen) busy() bool {
	return (s.item == nil && s.genErr == nil) || s.machine.State() == practice.StateProcessing
}

func (s *SpeakingScreen) handleKey(key string) tea.Cmd {
	if key == "n" {
		s.svc.Synthesizer.Cancel()
		return s.nextSentence()
	}
	if s.item == nil {
		return nil
	}

	switch key {
	case "space", "enter":
		switch s.machine.State() {
		case practice.StateIdle:
			return s.record()
		case practice.StateListening:
			s.svc.Recognizer.Stop()
		}
	case "p":
		if s.machine.State() == practice.StateIdle || s.machine.State() == practice.StateFeedback {
			s.notice = ""
			if err := s.svc.Synthesizer.Speak(context.Background(), s.item.Sentence, s.svc.Voice, s.voice.Synthesis()); err != nil {
				s.notice = err.Error()
			}
		}
	case "t":
		s.machine.TryAgain()
	}
	return nil
}

func (s *SpeakingScreen) record() tea.Cmd {
	if s.playing {
		s.svc.Synthesizer.Cancel()
	}
	if !s.machine.Begin() {
		return nil
	}
	if err := s.svc.Recognizer.Start(context.Background(), s.mic.Recognition()); err != nil {
		s.machine.Failed(err)
	}
	return nil
}

func (s *SpeakingScreen) handleMic(msg screen.SpeechMsg) tea.Cmd {
	switch msg.Event {
	case screen.SpeechResult:
		if !s.machine.Transcribed(msg.Text) {
			return nil
		}
		ticket := s.analyses.Begin()
		id, orch := s.id, s.svc.Orchestrator
		sentence, transcript := s.machine.Sentence(), s.machine.Transcript()
		return tea.Batch(func() tea.Msg {
			fb, err := orch.AnalyzePronunciation(context.Background(), sentence, transcript)
			return analyzedMsg{owner: id, ticket: ticket, feedback: fb, err: err}
		}, s.spin.Tick)
	case screen.SpeechFailed:
		s.machine.Failed(msg.Err)
	case screen.SpeechEnded:
		s.machine.Ended()
	}
	return nil
}

func (s *SpeakingScreen) handleVoice(msg screen.SpeechMsg) {
	switch msg.Event {
	case screen.SpeechStarted:
		s.playing = true
	case screen.SpeechFailed:
		if msg.Err != nil {
			s.notice = msg.Err.Error()
		}
	case screen.SpeechEnded:
		s.playing = false
	}
}

func (s *SpeakingScreen) View(width, height int) string {
	if s.genErr != nil {
		md := components.RenderMarkdown(content.ErrorMarkdown(s.genErr), 60)
		return components.Panel(md, width, 70) + "\n" +
			components.Centered("Press N to try again.", theme.TextDim, false, width)
	}
	if s.item == nil {
		return components.Loading(s.spin, "Finding a sentence for you...", width)
	}

	var b strings.Builder
	b.WriteString(components.Centered("Read this sentence aloud:", theme.TextDim, false, width))
	b.WriteString("\n\n")
	b.WriteString(components.Centered(s.item.Sentence, theme.Primary, true, width))
	b.WriteString("\n")
	b.WriteString(components.Centered(s.item.Translation, theme.TextDim, false, width))
	b.WriteString("\n\n")

	switch s.machine.State() {
	case practice.StateIdle:
		b.WriteString(components.Centered("🎤 Press Space to start recording.", theme.Text, false, width))
	case practice.StateListening:
		b.WriteString(components.Centered("🔴 Listening... press Space when you are done.", theme.Accent, true, width))
	case practice.StateProcessing:
		b.WriteString(components.Centered("You said: \""+s.machine.Transcript()+"\"", theme.Text, false, width))
		b.WriteString("\n")
		b.WriteString(components.Loading(s.spin, "Analyzing your pronunciation...", width))
	case practice.StateFeedback:
		b.WriteString(renderFeedback(s.machine.Transcript(), s.machine.Feedback(), width))
	}

	notice := s.machine.Notice()
	if s.notice != "" {
		notice = s.notice
	}
	if notice != "" {
		b.WriteString("\n\n")
		b.WriteString(components.Notice(notice, width))
	}
	if s.playing {
		b.WriteString("\n\n")
		b.WriteString(components.Centered("🔊 Playing...", theme.Secondary, false, width))
	}
	return b.String()
}

func renderFeedback(transcript string, fb *content.PronunciationFeedback, width int) string {
	if fb == nil {
		return ""
	}
	var b strings.Builder
	if transcript != "" {
		b.WriteString(theme.Hint.Render("You said: \"" + transcript + "\""))
		b.WriteString("\n\n")
	}

	scoreStyle := theme.Correct
	switch {
	case fb.Score < 50:
		scoreStyle = theme.Incorrect
	case fb.Score < 80:
		scoreStyle = theme.Mispronounced
	}
	b.WriteString(scoreStyle.Render(fmt.Sprintf("Score: %d/100", fb.Score)))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fb.OverallComment))
	b.WriteString("\n\n")

	words := make([]string, 0, len(fb.AnalyzedWords))
	for _, w := range fb.AnalyzedWords {
		words = append(words, wordStyle(w.Status).Render(w.Word))
	}
	b.WriteString(strings.Join(words, " "))
	b.WriteString("\n")

	for _, w := range fb.AnalyzedWords {
		if w.Status == content.WordCorrect {
			continue
		}
		line := wordStyle(w.Status).Render(w.Word)
		if w.PhoneticTranscription != "" {
			line += " " + theme.Hint.Render("/"+w.PhoneticTranscription+"/")
		}
		if w.Comment != "" {
			line += "  " + w.Comment
		}
		if w.ImprovementSuggestion != "" {
			line += "\n    " + theme.Hint.Render("Tip: "+w.ImprovementSuggestion)
		}
		b.WriteString("\n• " + line)
	}

	return components.Panel(lipgloss.NewStyle().Render(b.String()), width, 80)
}

func wordStyle(status content.WordStatus) lipgloss.Style {
	switch status {
	case content.WordCorrect:
		return theme.Correct
	case content.WordMispronounced:
		return theme.Mispronounced
	default:
		return theme.Incorrect
	}
}

// Close aborts any capture or playback in progress.
func (s *SpeakingScreen) Close() {
	s.svc.Recognizer.Abort()
	s.svc.Synthesizer.Cancel()
	s.sentences.Invalidate()
	s.analyses.Invalidate()
	s.mic.Close()
	s.voice.Close()
}
