package speech

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/deutschlern/internal/logger"
)

// Recognition defaults.
const (
	DefaultTranscriptionModel = openai.Whisper1
	DefaultLanguage           = "de"
)

// DefaultRecordCommand records 16 kHz mono WAV until interrupted.
var DefaultRecordCommand = []string{"arecord", "-q", "-f", "S16_LE", "-r", "16000", "-c", "1", FilePlaceholder}

// WhisperConfig configures a WhisperRecognizer.
type WhisperConfig struct {
	APIKey  string
	BaseURL string

	// Model is the transcription model. Default whisper-1.
	Model string

	// Language is the ISO-639-1 code passed to the transcription endpoint.
	// A locale such as "de-DE" is reduced to "de".
	Language string

	// RecordCommand writes audio to the path given by FilePlaceholder and
	// stops on SIGINT.
	RecordCommand []string
}

type transcriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperRecognizer records with a local command and transcribes the
// recording with the audio transcription endpoint.
type WhisperRecognizer struct {
	client  transcriber
	model   string
	lang    string
	command []string
	log     *logger.Logger

	mu     sync.Mutex
	active *capture
}

type capture struct {
	cmd       *exec.Cmd
	cancel    context.CancelFunc
	cancelRec context.CancelFunc
	done      chan struct{}
	mu      sync.Mutex
	stopped bool
	aborted bool
}

// NewWhisperRecognizer creates a recognizer. An empty API key fails.
func NewWhisperRecognizer(cfg WhisperConfig, log *logger.Logger) (*WhisperRecognizer, error) {
	if cfg.APIKey == "" {
		return nil, &ErrRecognition{Reason: "no API key for transcription"}
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return newWhisperRecognizer(openai.NewClientWithConfig(oc), cfg, log), nil
}

func newWhisperRecognizer(client transcriber, cfg WhisperConfig, log *logger.Logger) *WhisperRecognizer {
	if cfg.Model == "" {
		cfg.Model = DefaultTranscriptionModel
	}
	lang := cfg.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if len(cfg.RecordCommand) == 0 {
		cfg.RecordCommand = DefaultRecordCommand
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WhisperRecognizer{
		client:  client,
		model:   cfg.Model,
		lang:    strings.ToLower(lang),
		command: cfg.RecordCommand,
		log:     log,
	}
}

// Start aborts any capture in progress and begins recording.
func (w *WhisperRecognizer) Start(ctx context.Context, ev RecognitionEvents) error {
	w.Abort()

	path, err := tempFile("deutschlern-*.wav")
	if err != nil {
		rerr := &ErrRecognition{Reason: "create recording file", Err: err}
		ev.fail(rerr)
		ev.end()
		return rerr
	}

	capCtx, cancel := context.WithCancel(ctx)
	recCtx, cancelRec := context.WithCancel(capCtx)
	args := expandCommand(w.command, path)
	cmd := exec.CommandContext(recCtx, args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		cancelRec()
		cancel()
		os.Remove(path)
		rerr := &ErrRecognition{Reason: "start recording", Err: err}
		ev.fail(rerr)
		ev.end()
		return rerr
	}

	c := &capture{cmd: cmd, cancel: cancel, cancelRec: cancelRec, done: make(chan struct{})}
	w.mu.Lock()
	w.active = c
	w.mu.Unlock()

	ev.start()
	go w.finish(capCtx, c, path, ev)
	return nil
}

// finish waits for the recording and transcribes it. The capture stays
// active until OnEnd so Abort can still discard it mid-transcription.
func (w *WhisperRecognizer) finish(ctx context.Context, c *capture, path string, ev RecognitionEvents) {
	defer func() {
		w.mu.Lock()
		if w.active == c {
			w.active = nil
		}
		w.mu.Unlock()
		c.cancel()
		os.Remove(path)
		ev.end()
		close(c.done)
	}()

	waitErr := c.cmd.Wait()
	c.cancelRec()

	stopped, aborted := c.state()
	if aborted {
		return
	}
	if waitErr != nil && !stopped {
		w.log.Warn("recording command failed", "command", c.cmd.Args[0], "error", waitErr)
		ev.fail(&ErrRecognition{Reason: "recording failed", Err: waitErr})
		return
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: path,
		Language: w.lang,
	})
	if _, aborted := c.state(); aborted {
		return
	}
	if err != nil {
		w.log.Warn("transcription failed", "model", w.model, "error", err)
		ev.fail(&ErrRecognition{Reason: "transcription failed", Err: err})
		return
	}

	if text := strings.TrimSpace(resp.Text); text != "" {
		ev.result(text)
	}
}

// Stop interrupts the recording; what was captured is still transcribed.
func (w *WhisperRecognizer) Stop() {
	c := w.current()
	if c == nil {
		return
	}
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
	if err := c.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		c.cancelRec()
	}
}

// Abort kills the recording, cancels any transcription in flight and
// discards the capture. It returns once the capture has delivered OnEnd.
func (w *WhisperRecognizer) Abort() {
	c := w.current()
	if c == nil {
		return
	}
	c.mu.Lock()
	c.aborted = true
	c.mu.Unlock()
	c.cancel()
	<-c.done
}

func (c *capture) state() (stopped, aborted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped, c.aborted
}

func (w *WhisperRecognizer) current() *capture {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}
