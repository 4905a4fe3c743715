package llm

import "testing"

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENROUTER_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY",
		"DEUTSCHLERN_LLM_PROVIDER", "DEUTSCHLERN_LLM_TEMPERATURE", "DEUTSCHLERN_LLM_MAX_TOKENS",
		"DEUTSCHLERN_OPENROUTER_API_KEY", "DEUTSCHLERN_OPENROUTER_MODEL",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "openrouter" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.Temperature != 0.8 {
		t.Errorf("Temperature = %v", cfg.Temperature)
	}
	if cfg.Model() != "deepseek/deepseek-chat" {
		t.Errorf("Model() = %q", cfg.Model())
	}
	if cfg.HasKey() {
		t.Error("default config should have no key")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("DEUTSCHLERN_LLM_PROVIDER", "openrouter")
	t.Setenv("DEUTSCHLERN_OPENROUTER_API_KEY", "or-key")
	t.Setenv("DEUTSCHLERN_OPENROUTER_MODEL", "google/gemma-7b-it:free")
	t.Setenv("DEUTSCHLERN_LLM_TEMPERATURE", "0.3")
	t.Setenv("DEUTSCHLERN_LLM_MAX_TOKENS", "512")

	cfg := ConfigFromEnv()
	if !cfg.HasKey() {
		t.Error("expected key from env")
	}
	if cfg.Model() != "google/gemma-7b-it:free" {
		t.Errorf("Model() = %q", cfg.Model())
	}
	if cfg.Temperature != 0.3 || cfg.MaxTokens != 512 {
		t.Errorf("Temperature=%v MaxTokens=%d", cfg.Temperature, cfg.MaxTokens)
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := DiscoverConfig(DefaultConfig()); ok {
		t.Fatal("expected no discovery without keys")
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	cfg, ok := DiscoverConfig(DefaultConfig())
	if !ok || cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("got provider=%q ok=%v", cfg.Provider, ok)
	}

	t.Setenv("OPENROUTER_API_KEY", "or-key")
	cfg, _ = DiscoverConfig(DefaultConfig())
	if cfg.Provider != "openrouter" {
		t.Errorf("OpenRouter should win, got %q", cfg.Provider)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown provider", func(c *Config) { c.Provider = "bogus" }, true},
		{"model outside catalog", func(c *Config) { c.OpenRouter.Model = "some/other-model" }, true},
		{"direct provider accepts any model", func(c *Config) { c.Provider = "openai"; c.OpenAI.Model = "o3-mini" }, false},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }, true},
		{"negative max tokens", func(c *Config) { c.MaxTokens = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetModel("mistralai/mistral-7b-instruct:free")
	if cfg.Model() != "mistralai/mistral-7b-instruct:free" {
		t.Errorf("Model() = %q", cfg.Model())
	}
}
