package speaking

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/llm"
	"github.com/abhisek/deutschlern/internal/screen"
	practice "github.com/abhisek/deutschlern/internal/speaking"
	"github.com/abhisek/deutschlern/internal/speech"
)

// fakeRecognizer replays a fixed outcome as soon as capture starts.
type fakeRecognizer struct {
	transcript string
	err        error
	starts     int
	aborts     int
}

func (f *fakeRecognizer) Start(_ context.Context, ev speech.RecognitionEvents) error {
	f.starts++
	ev.OnStart()
	if f.err != nil {
		ev.OnError(f.err)
	} else {
		ev.OnResult(f.transcript)
	}
	ev.OnEnd()
	return nil
}

func (f *fakeRecognizer) Stop()  {}
func (f *fakeRecognizer) Abort() { f.aborts++ }

const (
	sentenceJSON = `{"sentence":"Ich bin Lehrer.","translation":"I am a teacher."}`
	feedbackJSON = `{"overallComment":"Sehr gut!","score":92.4,"analyzedWords":[` +
		`{"word":"Ich","status":"correct"},{"word":"bin","status":"correct"},` +
		`{"word":"Lehrer.","status":"mispronounced","comment":"Long e","phoneticTranscription":"ˈleːʁɐ"}]}`
)

func newTestScreen(rec speech.Recognizer, responses ...llm.MockResponse) *SpeakingScreen {
	orch := content.New(llm.NewMockProvider(responses...), nil, nil, content.DefaultConfig())
	svc := screen.Services{Orchestrator: orch, Recognizer: rec}.WithDefaults()
	return New(svc, "A1")
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// deliverSentence runs the generation command and applies its result.
func deliverSentence(t *testing.T, s *SpeakingScreen) {
	t.Helper()
	ticket := s.sentences.Begin()
	item, err := s.svc.Orchestrator.GenerateSpeaking(context.Background(), s.level)
	s.Update(sentenceMsg{owner: s.id, ticket: ticket, item: item, err: err})
}

// pumpMic applies every event queued on the recognition bridge and returns
// the commands the screen produced.
func pumpMic(s *SpeakingScreen, n int) []tea.Cmd {
	var cmds []tea.Cmd
	for i := 0; i < n; i++ {
		msg := s.mic.Wait()()
		sm := msg.(screen.SpeechMsg)
		if cmd := s.handleMic(sm); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func TestRecordAnalyzeAndTryAgain(t *testing.T) {
	rec := &fakeRecognizer{transcript: "Ich bin Lehrer"}
	s := newTestScreen(rec,
		llm.MockResponse{Content: sentenceJSON},
		llm.MockResponse{Content: feedbackJSON},
	)
	deliverSentence(t, s)
	if s.machine.Sentence() != "Ich bin Lehrer." {
		t.Fatalf("sentence = %q", s.machine.Sentence())
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})
	if rec.starts != 1 || s.machine.State() != practice.StateListening {
		t.Fatalf("space should start capture, state %v", s.machine.State())
	}

	pumpMic(s, 3) // start, result, end
	if s.machine.State() != practice.StateProcessing {
		t.Fatalf("state after transcript = %v, want processing", s.machine.State())
	}

	ticket := s.analyses.Begin()
	fb, err := s.svc.Orchestrator.AnalyzePronunciation(context.Background(), s.machine.Sentence(), s.machine.Transcript())
	s.Update(analyzedMsg{owner: s.id, ticket: ticket, feedback: fb, err: err})

	if s.machine.State() != practice.StateFeedback {
		t.Fatalf("state = %v, want feedback", s.machine.State())
	}
	if got := s.machine.Feedback().Score; got != 92 {
		t.Errorf("score = %d, want 92", got)
	}
	view := s.View(100, 30)
	for _, want := range []string{"Score: 92/100", "Sehr gut!", "ˈleːʁɐ"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	s.Update(keyPress('t'))
	if s.machine.State() != practice.StateIdle || s.machine.Feedback() != nil {
		t.Errorf("try again should reset to idle, state %v", s.machine.State())
	}
}

func TestRecognitionErrorReturnsToIdle(t *testing.T) {
	rec := &fakeRecognizer{err: &speech.ErrRecognition{Reason: "no microphone"}}
	s := newTestScreen(rec, llm.MockResponse{Content: sentenceJSON})
	deliverSentence(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})
	if cmds := pumpMic(s, 3); len(cmds) != 0 {
		t.Error("a failed capture must not start analysis")
	}
	if s.machine.State() != practice.StateIdle {
		t.Errorf("state = %v, want idle", s.machine.State())
	}
	if !strings.Contains(s.View(100, 30), "no microphone") {
		t.Error("recognition error not shown")
	}
}

func TestFailedAnalysisStillShowsFeedback(t *testing.T) {
	rec := &fakeRecognizer{transcript: "Ich bin"}
	s := newTestScreen(rec, llm.MockResponse{Content: sentenceJSON})
	deliverSentence(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})
	pumpMic(s, 3)

	ticket := s.analyses.Begin()
	s.Update(analyzedMsg{owner: s.id, ticket: ticket, err: &llm.ErrTransport{Err: errors.New("timeout")}})

	fb := s.machine.Feedback()
	if s.machine.State() != practice.StateFeedback || fb == nil {
		t.Fatalf("state = %v, want feedback", s.machine.State())
	}
	if fb.Score != 0 || len(fb.AnalyzedWords) != 3 {
		t.Errorf("feedback = %+v, want zero score over every word", fb)
	}
}

func TestNewSentenceDropsPendingAnalysis(t *testing.T) {
	rec := &fakeRecognizer{transcript: "Ich bin Lehrer"}
	s := newTestScreen(rec, llm.MockResponse{Content: sentenceJSON})
	deliverSentence(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})
	pumpMic(s, 3)
	stale := s.analyses.Begin()

	s.Update(keyPress('n'))
	if rec.aborts == 0 {
		t.Error("new sentence should abort capture")
	}
	s.Update(analyzedMsg{owner: s.id, ticket: stale, feedback: &content.PronunciationFeedback{Score: 100}})
	if s.machine.Feedback() != nil {
		t.Error("analysis for the previous sentence must be dropped")
	}
}

func TestUnconfiguredSpeech(t *testing.T) {
	s := newTestScreen(nil, llm.MockResponse{Content: sentenceJSON})
	deliverSentence(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})
	// Unavailable reports the failure asynchronously: error, then end.
	pumpMic(s, 2)
	if s.machine.State() != practice.StateIdle || s.machine.Notice() == "" {
		t.Errorf("state %v notice %q, want idle with a notice", s.machine.State(), s.machine.Notice())
	}
}
