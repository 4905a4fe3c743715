package llm

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openrouter", "openai", "anthropic", "gemini", "mock"
	Provider string

	// Temperature is sent with every chat request.
	Temperature float64

	// MaxTokens caps responses. Zero leaves it to the provider.
	MaxTokens int

	OpenRouter OpenRouterConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	Gemini     GeminiConfig
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: DefaultModel
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string
}

// DefaultTemperature is the sampling temperature for content generation.
const DefaultTemperature = 0.8

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    "openrouter",
		Temperature: DefaultTemperature,
		OpenRouter: OpenRouterConfig{
			Model:   DefaultModel,
			BaseURL: defaultOpenRouterBaseURL,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overrides cfg with any DEUTSCHLERN_* variables that are set.
func ApplyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.Provider, "DEUTSCHLERN_LLM_PROVIDER")
	if v := os.Getenv("DEUTSCHLERN_LLM_TEMPERATURE"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = t
		}
	}
	if v := os.Getenv("DEUTSCHLERN_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
		}
	}

	setString(&cfg.OpenRouter.APIKey, "DEUTSCHLERN_OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.Model, "DEUTSCHLERN_OPENROUTER_MODEL")
	setString(&cfg.OpenRouter.BaseURL, "DEUTSCHLERN_OPENROUTER_BASE_URL")

	setString(&cfg.OpenAI.APIKey, "DEUTSCHLERN_OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "DEUTSCHLERN_OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "DEUTSCHLERN_OPENAI_BASE_URL")

	setString(&cfg.Anthropic.APIKey, "DEUTSCHLERN_ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "DEUTSCHLERN_ANTHROPIC_MODEL")

	setString(&cfg.Gemini.APIKey, "DEUTSCHLERN_GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "DEUTSCHLERN_GEMINI_MODEL")
}

// DiscoverConfig probes standard API key env vars in priority order
// (OpenRouter → OpenAI → Gemini → Anthropic) and returns cfg switched to
// the first provider whose key is found. Returns (cfg, false) if none found.
func DiscoverConfig(cfg Config) (Config, bool) {
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	return cfg, false
}

// HasKey reports whether the selected provider has a credential.
func (c Config) HasKey() bool {
	switch c.Provider {
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "gemini":
		return c.Gemini.APIKey != ""
	case "mock":
		return true
	}
	return false
}

// Model returns the model configured for the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case "openrouter":
		return c.OpenRouter.Model
	case "openai":
		return c.OpenAI.Model
	case "anthropic":
		return c.Anthropic.Model
	case "gemini":
		return c.Gemini.Model
	case "mock":
		return "mock"
	}
	return ""
}

// SetModel overrides the model of the selected provider.
func (c *Config) SetModel(model string) {
	switch c.Provider {
	case "openrouter":
		c.OpenRouter.Model = model
	case "openai":
		c.OpenAI.Model = model
	case "anthropic":
		c.Anthropic.Model = model
	case "gemini":
		c.Gemini.Model = model
	}
}

// Validate checks the provider name and sampling parameters. A missing API
// key is not an error; see NewProvider.
func (c Config) Validate() error {
	switch c.Provider {
	case "openrouter", "openai", "anthropic", "gemini", "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Provider == "openrouter" {
		if _, ok := LookupModel(c.OpenRouter.Model); !ok {
			return fmt.Errorf("unknown OpenRouter model %q (see `deutschlern models`)", c.OpenRouter.Model)
		}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got %d", c.MaxTokens)
	}
	return nil
}
