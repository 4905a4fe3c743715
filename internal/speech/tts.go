package speech

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/deutschlern/internal/logger"
)

// Synthesis defaults.
const (
	DefaultSpeechModel = openai.TTSModel1
	DefaultVoice       = openai.VoiceAlloy
)

// DefaultPlayCommand plays an MP3 file.
var DefaultPlayCommand = []string{"mpg123", "-q", FilePlaceholder}

// TTSConfig configures a TTSSynthesizer.
type TTSConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Voice       string
	PlayCommand []string
}

type speechClient interface {
	CreateSpeech(ctx context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// TTSSynthesizer renders speech with the audio speech endpoint and plays
// the MP3 with a local command.
type TTSSynthesizer struct {
	client  speechClient
	model   string
	voice   string
	command []string
	log     *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTTSSynthesizer creates a synthesizer. An empty API key fails.
func NewTTSSynthesizer(cfg TTSConfig, log *logger.Logger) (*TTSSynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, &ErrSynthesis{Reason: "no API key for speech synthesis"}
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return newTTSSynthesizer(openai.NewClientWithConfig(oc), cfg, log), nil
}

func newTTSSynthesizer(client speechClient, cfg TTSConfig, log *logger.Logger) *TTSSynthesizer {
	if cfg.Model == "" {
		cfg.Model = string(DefaultSpeechModel)
	}
	if cfg.Voice == "" {
		cfg.Voice = string(DefaultVoice)
	}
	if len(cfg.PlayCommand) == 0 {
		cfg.PlayCommand = DefaultPlayCommand
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TTSSynthesizer{
		client:  client,
		model:   cfg.Model,
		voice:   cfg.Voice,
		command: cfg.PlayCommand,
		log:     log,
	}
}

// Speak cancels any utterance in progress and speaks text. voice overrides
// the configured voice when non-empty.
func (s *TTSSynthesizer) Speak(ctx context.Context, text, voice string, ev SynthesisEvents) error {
	s.Cancel()

	if voice == "" {
		voice = s.voice
	}
	sctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		defer ev.end()

		if err := s.speak(sctx, text, voice, ev); err != nil && sctx.Err() == nil {
			s.log.Warn("speech synthesis failed", "model", s.model, "error", err)
			ev.fail(err)
		}
	}()
	return nil
}

func (s *TTSSynthesizer) speak(ctx context.Context, text, voice string, ev SynthesisEvents) error {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return &ErrSynthesis{Reason: "request speech", Err: err}
	}
	defer resp.Close()

	path, err := tempFile("deutschlern-*.mp3")
	if err != nil {
		return &ErrSynthesis{Reason: "create audio file", Err: err}
	}
	defer os.Remove(path)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return &ErrSynthesis{Reason: "open audio file", Err: err}
	}
	if _, err := io.Copy(f, resp); err != nil {
		f.Close()
		return &ErrSynthesis{Reason: "write audio", Err: err}
	}
	if err := f.Close(); err != nil {
		return &ErrSynthesis{Reason: "write audio", Err: err}
	}

	args := expandCommand(s.command, path)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return &ErrSynthesis{Reason: "start player", Err: err}
	}
	ev.start()
	if err := cmd.Wait(); err != nil {
		return &ErrSynthesis{Reason: "playback failed", Err: err}
	}
	return nil
}

// Cancel stops the current utterance and waits for it to deliver OnEnd.
func (s *TTSSynthesizer) Cancel() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
