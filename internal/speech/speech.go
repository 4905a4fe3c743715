// Package speech provides speech-to-text and text-to-speech collaborators
// backed by OpenAI-compatible audio endpoints and local record/play
// commands.
package speech

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FilePlaceholder is replaced with the audio file path in record and play
// commands.
const FilePlaceholder = "{file}"

// ErrRecognition is a speech capture or transcription failure.
type ErrRecognition struct {
	Reason string
	Err    error
}

func (e *ErrRecognition) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech recognition failed: %s: %v", e.Reason, e.Err)
	}
	return "speech recognition failed: " + e.Reason
}

func (e *ErrRecognition) Unwrap() error { return e.Err }

// ErrSynthesis is a speech synthesis or playback failure.
type ErrSynthesis struct {
	Reason string
	Err    error
}

func (e *ErrSynthesis) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech synthesis failed: %s: %v", e.Reason, e.Err)
	}
	return "speech synthesis failed: " + e.Reason
}

func (e *ErrSynthesis) Unwrap() error { return e.Err }

// RecognitionEvents are the callbacks of one capture. Callbacks run on a
// background goroutine; any of them may be nil. OnEnd is always the last
// event.
type RecognitionEvents struct {
	OnStart  func()
	OnResult func(transcript string)
	OnEnd    func()
	OnError  func(err error)
}

func (ev RecognitionEvents) start() {
	if ev.OnStart != nil {
		ev.OnStart()
	}
}

func (ev RecognitionEvents) result(t string) {
	if ev.OnResult != nil {
		ev.OnResult(t)
	}
}

func (ev RecognitionEvents) end() {
	if ev.OnEnd != nil {
		ev.OnEnd()
	}
}

func (ev RecognitionEvents) fail(err error) {
	if ev.OnError != nil {
		ev.OnError(err)
	}
}

// SynthesisEvents are the callbacks of one utterance.
type SynthesisEvents struct {
	OnStart func()
	OnEnd   func()
	OnError func(err error)
}

func (ev SynthesisEvents) start() {
	if ev.OnStart != nil {
		ev.OnStart()
	}
}

func (ev SynthesisEvents) end() {
	if ev.OnEnd != nil {
		ev.OnEnd()
	}
}

func (ev SynthesisEvents) fail(err error) {
	if ev.OnError != nil {
		ev.OnError(err)
	}
}

// Recognizer captures one utterance at a time. Starting a new capture aborts
// the previous one.
type Recognizer interface {
	// Start begins capturing. Events are delivered through ev.
	Start(ctx context.Context, ev RecognitionEvents) error
	// Stop ends the recording early and transcribes what was captured.
	Stop()
	// Abort discards the capture; only OnEnd is delivered.
	Abort()
}

// Synthesizer speaks text aloud. Speaking cancels any utterance in progress.
type Synthesizer interface {
	Speak(ctx context.Context, text, voice string, ev SynthesisEvents) error
	Cancel()
}

// Unavailable is used when speech is not configured: every capture fails
// with Reason.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Start(_ context.Context, ev RecognitionEvents) error {
	err := &ErrRecognition{Reason: u.Reason}
	go func() {
		ev.fail(err)
		ev.end()
	}()
	return nil
}

func (Unavailable) Stop()  {}
func (Unavailable) Abort() {}

func (u Unavailable) Speak(_ context.Context, _, _ string, ev SynthesisEvents) error {
	err := &ErrSynthesis{Reason: u.Reason}
	go func() {
		ev.fail(err)
		ev.end()
	}()
	return nil
}

func (Unavailable) Cancel() {}

// expandCommand substitutes path for FilePlaceholder, appending it when the
// command has no placeholder.
func expandCommand(command []string, path string) []string {
	out := make([]string, 0, len(command)+1)
	found := false
	for _, arg := range command {
		if strings.Contains(arg, FilePlaceholder) {
			found = true
			arg = strings.ReplaceAll(arg, FilePlaceholder, path)
		}
		out = append(out, arg)
	}
	if !found {
		out = append(out, path)
	}
	return out
}

func tempFile(pattern string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
