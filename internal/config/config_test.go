package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from keys set in the developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENROUTER_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY",
		"DEUTSCHLERN_OPENROUTER_API_KEY", "DEUTSCHLERN_OPENAI_API_KEY",
		"DEUTSCHLERN_LLM_PROVIDER", "DEUTSCHLERN_DB", "DEUTSCHLERN_LOG",
		"DEUTSCHLERN_SPEECH_API_KEY", "DEUTSCHLERN_QUIZ_DISPLAY_DELAY",
		"DEUTSCHLERN_OPENROUTER_MODEL",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.InDelta(t, 0.8, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, "de-DE", cfg.Speech.Language)
	assert.Equal(t, 25, cfg.Quiz.AssessmentLength)
	assert.Equal(t, 10, cfg.Quiz.ListeningLength)
	assert.Equal(t, 1500*time.Millisecond, cfg.Quiz.DisplayDelay)

	l := cfg.LLMSettings()
	assert.Equal(t, "deepseek/deepseek-chat", l.Model())
	assert.False(t, l.HasKey())
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db = "/tmp/dl.db"

[llm]
provider = "openai"
model = "gpt-4o"
temperature = 0.5

[llm.openai]
api_key = "sk-file"

[speech]
voice = "nova"
record_command = ["rec", "-q", "{file}"]

[quiz]
listening_length = 5
display_delay = "2s"

[mystery]
x = 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/dl.db", cfg.DB)
	assert.Equal(t, "nova", cfg.Speech.Voice)
	assert.Equal(t, []string{"rec", "-q", "{file}"}, cfg.Speech.RecordCommand)
	assert.Equal(t, 5, cfg.Quiz.ListeningLength)
	assert.Equal(t, 25, cfg.Quiz.AssessmentLength)
	assert.Equal(t, 2*time.Second, cfg.Quiz.DisplayDelay)
	assert.Contains(t, cfg.Unknown, "mystery.x")

	l := cfg.LLMSettings()
	assert.Equal(t, "openai", l.Provider)
	assert.Equal(t, "gpt-4o", l.Model())
	assert.Equal(t, "sk-file", l.OpenAI.APIKey)
	assert.InDelta(t, 0.5, l.Temperature, 1e-9)
	assert.Equal(t, "sk-file", cfg.SpeechKey())

	_, listening := cfg.QuizSettings()
	assert.Equal(t, 5, listening.Length)
	assert.Equal(t, 2*time.Second, listening.DisplayDelay)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db = "/tmp/file.db"
[llm.openrouter]
api_key = "from-file"
`)
	t.Setenv("DEUTSCHLERN_DB", "/tmp/env.db")
	t.Setenv("DEUTSCHLERN_OPENROUTER_API_KEY", "from-env")
	t.Setenv("DEUTSCHLERN_QUIZ_DISPLAY_DELAY", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DB)
	assert.Equal(t, 250*time.Millisecond, cfg.Quiz.DisplayDelay)
	assert.Equal(t, "from-env", cfg.LLMSettings().OpenRouter.APIKey)
}

func TestLLMSettings_DiscoversStandardKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load("")
	require.NoError(t, err)

	l := cfg.LLMSettings()
	assert.Equal(t, "gemini", l.Provider)
	assert.Equal(t, "g-key", l.Gemini.APIKey)
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "[llm\nprovider ="))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero listening length", func(c *Config) { c.Quiz.ListeningLength = 0 }, true},
		{"negative delay", func(c *Config) { c.Quiz.DisplayDelay = -time.Second }, true},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "cohere" }, true},
		{"model outside catalog", func(c *Config) { c.LLM.Model = "meta/llama-9000" }, true},
		{"any model for openai", func(c *Config) {
			c.LLM.Provider = "openai"
			c.LLM.Model = "gpt-4.1"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
