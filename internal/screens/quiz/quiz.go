// Package quiz runs the assessment and listening quizzes.
package quiz

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/report"
	"github.com/abhisek/deutschlern/internal/router"
	"github.com/abhisek/deutschlern/internal/screen"
	"github.com/abhisek/deutschlern/internal/screens/reports"
	"github.com/abhisek/deutschlern/internal/session"
	"github.com/abhisek/deutschlern/internal/ui/components"
	"github.com/abhisek/deutschlern/internal/ui/layout"
)

type deliveredMsg[T session.Gradable] struct {
	owner    int64
	delivery session.Delivery[T]
}

type advanceMsg struct {
	owner    int64
	round    int
	answered int
}

type savedMsg struct {
	owner  int64
	round  int
	report *report.Report
	err    error
}

// kind adapts one question type to the screen.
type kind[T session.Gradable] struct {
	name    string
	options func(T) []string
	correct func(T) string
	render  func(s *QuizScreen[T], width int) string

	// hints are shown next to the options once the question is answered.
	hints func(T) []string

	// script is the text played with "p"; nil when the quiz has no audio.
	script func(T) string

	// save persists the finished run; nil when nothing is saved.
	save func(ctx context.Context, svc screen.Services, level string, st session.RunState[T]) (*report.Report, error)
}

// QuizScreen drives a session.Run: it fetches questions in the background,
// grades choices, waits the display delay and moves on until the run is
// complete.
type QuizScreen[T session.Gradable] struct {
	id    int64
	svc   screen.Services
	run   *session.Run[T]
	kind  kind[T]
	round int

	choice components.MultiChoice
	spin   spinner.Model

	bridge     *screen.SpeechBridge
	playing    bool
	showScript bool
	notice     string

	saved   *report.Report
	saveErr error
}

var _ screen.Screen = (*QuizScreen[*content.AssessmentItem])(nil)
var _ screen.KeyHintProvider = (*QuizScreen[*content.ListeningItem])(nil)

func newQuiz[T session.Gradable](svc screen.Services, run *session.Run[T], k kind[T]) *QuizScreen[T] {
	return &QuizScreen[T]{
		id:     screen.NewID(),
		svc:    svc,
		run:    run,
		kind:   k,
		spin:   components.NewSpinner(),
		bridge: screen.NewSpeechBridge("playback"),
	}
}

func (s *QuizScreen[T]) Init() tea.Cmd {
	return tea.Batch(s.start(), s.bridge.Wait())
}

func (s *QuizScreen[T]) Title() string {
	return s.kind.name + " · " + s.run.Level
}

func (s *QuizScreen[T]) start() tea.Cmd {
	s.round++
	s.saved, s.saveErr = nil, nil
	s.notice = ""
	s.showScript = false
	return tea.Batch(s.fetch(s.run.Start()), s.spin.Tick)
}

func (s *QuizScreen[T]) fetch(ticket session.Ticket) tea.Cmd {
	id, run := s.id, s.run
	return func() tea.Msg {
		return deliveredMsg[T]{owner: id, delivery: run.Fetch(context.Background(), ticket)}
	}
}

func (s *QuizScreen[T]) KeyHints() []layout.KeyHint {
	var hints []layout.KeyHint
	switch s.run.Phase() {
	case session.PhaseAwaitingQuestion:
		if s.run.Err() != nil {
			hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry"})
		}
	case session.PhaseAwaitingAnswer:
		if !s.run.Answered() {
			hints = append(hints,
				layout.KeyHint{Key: "↑↓", Description: "Choose"},
				layout.KeyHint{Key: "Enter/1-9", Description: "Answer"},
			)
		}
		if s.kind.script != nil {
			hints = append(hints,
				layout.KeyHint{Key: "P", Description: "Play"},
				layout.KeyHint{Key: "T", Description: "Show text"},
			)
		}
	case session.PhaseComplete:
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Restart"})
		if s.saved != nil {
			hints = append(hints, layout.KeyHint{Key: "V", Description: "View report"})
		}
	}
	return hints
}

func (s *QuizScreen[T]) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case deliveredMsg[T]:
		if msg.owner != s.id {
			return s, nil
		}
		return s, s.handleDelivery(msg.delivery)

	case advanceMsg:
		if msg.owner != s.id || msg.round != s.round || msg.answered != s.run.State().QuestionsAnswered {
			return s, nil
		}
		if ticket, ok := s.run.Advance(); ok {
			s.stopAudio()
			return s, tea.Batch(s.fetch(ticket), s.spin.Tick)
		}
		return s, nil

	case savedMsg:
		if msg.owner != s.id {
			return s, nil
		}
		if msg.err != nil {
			s.svc.Log.Error("save quiz report", "round", msg.round, "error", msg.err)
		}
		// A restarted run never shows the previous run's report.
		if msg.round == s.round {
			s.saved, s.saveErr = msg.report, msg.err
		}
		return s, nil

	case screen.SpeechMsg:
		return s, s.handleSpeech(msg)

	case spinner.TickMsg:
		if s.run.Phase() != session.PhaseAwaitingQuestion || s.run.Err() != nil {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen[T]) handleDelivery(d session.Delivery[T]) tea.Cmd {
	if !s.run.Deliver(d) {
		return nil
	}
	if d.Err != nil {
		s.svc.Log.Warn("quiz question generation failed",
			"quiz", s.kind.name, "level", s.run.Level, "error", d.Err)
		return nil
	}
	s.showScript = false
	s.notice = ""
	s.choice = components.NewMultiChoice(s.kind.options(d.Item), nil)
	return nil
}

func (s *QuizScreen[T]) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch s.run.Phase() {
	case session.PhaseAwaitingQuestion:
		if key == "r" && s.run.Err() != nil {
			if ticket, ok := s.run.Retry(); ok {
				return tea.Batch(s.fetch(ticket), s.spin.Tick)
			}
		}
		return nil

	case session.PhaseComplete:
		switch key {
		case "r":
			s.stopAudio()
			return s.start()
		case "v":
			if s.saved != nil {
				return func() tea.Msg {
					return router.ReplaceScreenMsg{Screen: reports.NewDetail(s.svc, s.saved.ID)}
				}
			}
		}
		return nil
	}

	if s.kind.script != nil {
		switch key {
		case "p":
			return s.play()
		case "t":
			s.showScript = !s.showScript
			return nil
		}
	}

	if s.run.Answered() {
		return nil
	}
	var (
		answer string
		chosen bool
	)
	s.choice, answer, chosen = s.choice.Update(msg)
	if !chosen {
		return nil
	}
	return s.answer(answer)
}

func (s *QuizScreen[T]) answer(answer string) tea.Cmd {
	item, _ := s.run.Current()
	outcome, ok := s.run.Answer(answer)
	if !ok {
		return nil
	}
	s.choice.Reveal(s.kind.correct(item))
	if s.kind.hints != nil {
		s.choice.Hints = s.kind.hints(item)
	}

	if outcome.Complete {
		s.stopAudio()
		return s.save()
	}

	id, round, answered := s.id, s.round, s.run.State().QuestionsAnswered
	return tea.Tick(s.run.Config().DisplayDelay, func(time.Time) tea.Msg {
		return advanceMsg{owner: id, round: round, answered: answered}
	})
}

func (s *QuizScreen[T]) save() tea.Cmd {
	if s.kind.save == nil || s.svc.Reports == nil {
		return nil
	}
	id, round, svc, level, st, save := s.id, s.round, s.svc, s.run.Level, s.run.State(), s.kind.save
	return func() tea.Msg {
		r, err := save(context.Background(), svc, level, st)
		return savedMsg{owner: id, round: round, report: r, err: err}
	}
}

func (s *QuizScreen[T]) play() tea.Cmd {
	item, ok := s.run.Current()
	if !ok {
		return nil
	}
	s.notice = ""
	if err := s.svc.Synthesizer.Speak(context.Background(), s.kind.script(item), s.svc.Voice, s.bridge.Synthesis()); err != nil {
		s.notice = err.Error()
	}
	return nil
}

func (s *QuizScreen[T]) handleSpeech(msg screen.SpeechMsg) tea.Cmd {
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
	return s.bridge.Wait()
}

func (s *QuizScreen[T]) stopAudio() {
	if s.playing {
		s.svc.Synthesizer.Cancel()
	}
}

// Close stops playback and event delivery.
func (s *QuizScreen[T]) Close() {
	s.svc.Synthesizer.Cancel()
	s.bridge.Close()
}
