// Package config loads deutschlern settings from defaults, a TOML file, an
// optional .env file and DEUTSCHLERN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/abhisek/deutschlern/internal/llm"
	"github.com/abhisek/deutschlern/internal/logger"
	"github.com/abhisek/deutschlern/internal/session"
	"github.com/abhisek/deutschlern/internal/speech"
)

type Config struct {
	// DB is the SQLite database path. Empty selects store.DefaultDBPath.
	DB string `toml:"db"`

	LLM    LLMConfig    `toml:"llm"`
	Speech SpeechConfig `toml:"speech"`
	Log    LogConfig    `toml:"log"`
	Quiz   QuizConfig   `toml:"quiz"`

	// Unknown lists keys in the file that matched no setting.
	Unknown []string `toml:"-"`
}

type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"` // applies to the selected provider
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`

	OpenRouter ProviderConfig `toml:"openrouter"`
	OpenAI     ProviderConfig `toml:"openai"`
	Anthropic  ProviderConfig `toml:"anthropic"`
	Gemini     ProviderConfig `toml:"gemini"`
}

type ProviderConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

type SpeechConfig struct {
	// Language is the recognition locale. Default de-DE.
	Language string `toml:"language"`

	// APIKey for the audio endpoints. Falls back to the OpenAI key.
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`

	TranscriptionModel string   `toml:"transcription_model"`
	TTSModel           string   `toml:"tts_model"`
	Voice              string   `toml:"voice"`
	RecordCommand      []string `toml:"record_command"`
	PlayCommand        []string `toml:"play_command"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

type QuizConfig struct {
	AssessmentLength int           `toml:"assessment_length"`
	ListeningLength  int           `toml:"listening_length"`
	DisplayDelay     time.Duration `toml:"display_delay"`
}

// Default returns the built-in settings.
func Default() Config {
	d := llm.DefaultConfig()
	return Config{
		LLM: LLMConfig{
			Provider:    d.Provider,
			Temperature: d.Temperature,
			OpenRouter:  ProviderConfig{Model: d.OpenRouter.Model, BaseURL: d.OpenRouter.BaseURL},
			OpenAI:      ProviderConfig{Model: d.OpenAI.Model},
			Anthropic:   ProviderConfig{Model: d.Anthropic.Model},
			Gemini:      ProviderConfig{Model: d.Gemini.Model},
		},
		Speech: SpeechConfig{
			Language:           "de-DE",
			TranscriptionModel: speech.DefaultTranscriptionModel,
			TTSModel:           string(speech.DefaultSpeechModel),
			Voice:              string(speech.DefaultVoice),
			RecordCommand:      speech.DefaultRecordCommand,
			PlayCommand:        speech.DefaultPlayCommand,
		},
		Log: LogConfig{
			Level: "info",
			Path:  logger.DefaultPath(),
		},
		Quiz: QuizConfig{
			AssessmentLength: session.AssessmentLength,
			ListeningLength:  session.ListeningLength,
			DisplayDelay:     session.DefaultDisplayDelay,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/deutschlern/config.toml, falling
// back to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "deutschlern", "config.toml")
}

// Load reads settings in precedence order: defaults, the TOML file at path,
// a .env file in the working directory, then environment variables. When
// path is empty DefaultPath is used and a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.decodeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	// Variables already in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("reading .env: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	for _, k := range md.Undecoded() {
		c.Unknown = append(c.Unknown, k.String())
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.DB, "DEUTSCHLERN_DB")
	setString(&c.Log.Path, "DEUTSCHLERN_LOG")
	setString(&c.Log.Level, "DEUTSCHLERN_LOG_LEVEL")

	setString(&c.Speech.APIKey, "DEUTSCHLERN_SPEECH_API_KEY")
	setString(&c.Speech.BaseURL, "DEUTSCHLERN_SPEECH_BASE_URL")
	setString(&c.Speech.Language, "DEUTSCHLERN_SPEECH_LANGUAGE")
	setString(&c.Speech.Voice, "DEUTSCHLERN_SPEECH_VOICE")
	if v := os.Getenv("DEUTSCHLERN_SPEECH_RECORD_COMMAND"); v != "" {
		c.Speech.RecordCommand = strings.Fields(v)
	}
	if v := os.Getenv("DEUTSCHLERN_SPEECH_PLAY_COMMAND"); v != "" {
		c.Speech.PlayCommand = strings.Fields(v)
	}

	if v := os.Getenv("DEUTSCHLERN_QUIZ_DISPLAY_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Quiz.DisplayDelay = d
		}
	}
	for key, dst := range map[string]*int{
		"DEUTSCHLERN_QUIZ_ASSESSMENT_LENGTH": &c.Quiz.AssessmentLength,
		"DEUTSCHLERN_QUIZ_LISTENING_LENGTH":  &c.Quiz.ListeningLength,
	} {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// LLMSettings converts the [llm] section into provider settings, applying
// DEUTSCHLERN_* overrides. When the selected provider has no key, the
// standard *_API_KEY variables are probed.
func (c Config) LLMSettings() llm.Config {
	out := llm.DefaultConfig()
	l := c.LLM

	if l.Provider != "" {
		out.Provider = l.Provider
	}
	out.Temperature = l.Temperature
	out.MaxTokens = l.MaxTokens

	overlay := func(apiKey, model, baseURL *string, p ProviderConfig) {
		pick(apiKey, p.APIKey)
		pick(model, p.Model)
		pick(baseURL, p.BaseURL)
	}
	overlay(&out.OpenRouter.APIKey, &out.OpenRouter.Model, &out.OpenRouter.BaseURL, l.OpenRouter)
	overlay(&out.OpenAI.APIKey, &out.OpenAI.Model, &out.OpenAI.BaseURL, l.OpenAI)
	overlay(&out.Anthropic.APIKey, &out.Anthropic.Model, &out.Anthropic.BaseURL, l.Anthropic)
	overlay(&out.Gemini.APIKey, &out.Gemini.Model, &out.Gemini.BaseURL, l.Gemini)
	if l.Model != "" {
		out.SetModel(l.Model)
	}

	llm.ApplyEnv(&out)
	if !out.HasKey() {
		if found, ok := llm.DiscoverConfig(out); ok {
			out = found
		}
	}
	return out
}

func pick(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// SpeechKey returns the key for the audio endpoints: the [speech] key, the
// OpenAI key, then OPENAI_API_KEY.
func (c Config) SpeechKey() string {
	switch {
	case c.Speech.APIKey != "":
		return c.Speech.APIKey
	case c.LLM.OpenAI.APIKey != "":
		return c.LLM.OpenAI.APIKey
	case os.Getenv("DEUTSCHLERN_OPENAI_API_KEY") != "":
		return os.Getenv("DEUTSCHLERN_OPENAI_API_KEY")
	}
	return os.Getenv("OPENAI_API_KEY")
}

// QuizSettings returns the assessment and listening quiz configurations.
func (c Config) QuizSettings() (assessment, listening session.Config) {
	assessment = session.Config{Length: c.Quiz.AssessmentLength, DisplayDelay: c.Quiz.DisplayDelay}
	listening = session.Config{Length: c.Quiz.ListeningLength, DisplayDelay: c.Quiz.DisplayDelay}
	return assessment, listening
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	if c.Quiz.AssessmentLength < 1 || c.Quiz.ListeningLength < 1 {
		return fmt.Errorf("quiz lengths must be positive (assessment %d, listening %d)",
			c.Quiz.AssessmentLength, c.Quiz.ListeningLength)
	}
	if c.Quiz.DisplayDelay < 0 {
		return fmt.Errorf("quiz display_delay must not be negative, got %s", c.Quiz.DisplayDelay)
	}
	return c.LLMSettings().Validate()
}
