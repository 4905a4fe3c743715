// Package speaking drives the pronunciation practice cycle: capture speech,
// analyze the transcript, show feedback, try again.
package speaking

import (
	"context"

	"github.com/abhisek/deutschlern/internal/content"
)

// State is a phase of speaking practice.
type State int

const (
	StateIdle State = iota
	StateListening
	StateProcessing
	StateFeedback
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// Analyzer scores a transcript against the target sentence.
type Analyzer interface {
	AnalyzePronunciation(ctx context.Context, sentence, transcript string) (*content.PronunciationFeedback, error)
}

// Machine holds the practice state for one target sentence. Methods report
// whether the transition was taken; events that do not apply to the current
// state are ignored. It is not safe for concurrent use.
type Machine struct {
	state      State
	sentence   string
	transcript string
	feedback   *content.PronunciationFeedback
	notice     string
}

// New creates an idle machine for sentence.
func New(sentence string) *Machine {
	return &Machine{sentence: sentence}
}

// SetSentence switches to a new target sentence and resets to idle.
func (m *Machine) SetSentence(sentence string) {
	*m = Machine{sentence: sentence}
}

// Begin starts capturing. Only valid from idle.
func (m *Machine) Begin() bool {
	if m.state != StateIdle {
		return false
	}
	m.state = StateListening
	m.notice = ""
	return true
}

// Ended handles the recognizer finishing without a transcript. Feedback is
// left as it was.
func (m *Machine) Ended() bool {
	if m.state != StateListening {
		return false
	}
	m.state = StateIdle
	return true
}

// Failed handles a recognition error: the reason is kept as a notice and the
// machine returns to idle.
func (m *Machine) Failed(err error) bool {
	if m.state != StateListening {
		return false
	}
	m.state = StateIdle
	if err != nil {
		m.notice = err.Error()
	}
	return true
}

// Transcribed records what was heard and moves to processing.
func (m *Machine) Transcribed(transcript string) bool {
	if m.state != StateListening {
		return false
	}
	m.transcript = transcript
	m.state = StateProcessing
	return true
}

// Analyzed stores the analysis outcome and moves to feedback. A failed
// analysis still reaches feedback, with every word marked incorrect.
func (m *Machine) Analyzed(fb *content.PronunciationFeedback, err error) bool {
	if m.state != StateProcessing {
		return false
	}
	if err != nil || fb == nil {
		fb = content.FailedFeedback(m.sentence, err)
	}
	m.feedback = fb
	m.state = StateFeedback
	return true
}

// TryAgain clears the transcript and feedback and returns to idle.
func (m *Machine) TryAgain() bool {
	if m.state != StateFeedback {
		return false
	}
	m.transcript = ""
	m.feedback = nil
	m.state = StateIdle
	return true
}

// Analyze runs the analysis for the current transcript. It does not change
// state; pass the result to Analyzed.
func (m *Machine) Analyze(ctx context.Context, a Analyzer) (*content.PronunciationFeedback, error) {
	return a.AnalyzePronunciation(ctx, m.sentence, m.transcript)
}

func (m *Machine) State() State { return m.state }
func (m *Machine) Sentence() string { return m.sentence }
func (m *Machine) Transcript() string { return m.transcript }
func (m *Machine) Feedback() *content.PronunciationFeedback { return m.feedback }

// Notice is the last recognition error, cleared when capture begins again.
func (m *Machine) Notice() string { return m.notice }
