package screen

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/deutschlern/internal/speech"
)

// SpeechEvent identifies a recognizer or synthesizer callback.
type SpeechEvent int

const (
	SpeechStarted SpeechEvent = iota
	SpeechResult
	SpeechEnded
	SpeechFailed
)

// SpeechMsg carries one speech callback into the update loop. Source is
// the tag of the bridge that produced it.
type SpeechMsg struct {
	Source string
	Event  SpeechEvent
	Text   string
	Err    error
}

// SpeechBridge turns speech callbacks, which fire on other goroutines, into
// tea messages. Callbacks never block: when the buffer is full or the
// bridge is closed the event is dropped.
type SpeechBridge struct {
	source string
	ch     chan SpeechMsg
	done   chan struct{}
	once   sync.Once
}

// NewSpeechBridge creates an open bridge whose messages carry source.
func NewSpeechBridge(source string) *SpeechBridge {
	return &SpeechBridge{
		source: source,
		ch:     make(chan SpeechMsg, 16),
		done:   make(chan struct{}),
	}
}

func (b *SpeechBridge) send(m SpeechMsg) {
	m.Source = b.source
	select {
	case <-b.done:
	case b.ch <- m:
	default:
	}
}

// Recognition returns callbacks that feed the bridge.
func (b *SpeechBridge) Recognition() speech.RecognitionEvents {
	return speech.RecognitionEvents{
		OnStart:  func() { b.send(SpeechMsg{Event: SpeechStarted}) },
		OnResult: func(t string) { b.send(SpeechMsg{Event: SpeechResult, Text: t}) },
		OnEnd:    func() { b.send(SpeechMsg{Event: SpeechEnded}) },
		OnError:  func(err error) { b.send(SpeechMsg{Event: SpeechFailed, Err: err}) },
	}
}

// Synthesis returns callbacks that feed the bridge.
func (b *SpeechBridge) Synthesis() speech.SynthesisEvents {
	return speech.SynthesisEvents{
		OnStart: func() { b.send(SpeechMsg{Event: SpeechStarted}) },
		OnEnd:   func() { b.send(SpeechMsg{Event: SpeechEnded}) },
		OnError: func(err error) { b.send(SpeechMsg{Event: SpeechFailed, Err: err}) },
	}
}

// Wait returns a command that delivers the next event. It yields nil once
// the bridge is closed.
func (b *SpeechBridge) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case m := <-b.ch:
			return m
		case <-b.done:
			return nil
		}
	}
}

// Close stops delivery. It is safe to call more than once.
func (b *SpeechBridge) Close() {
	b.once.Do(func() { close(b.done) })
}
