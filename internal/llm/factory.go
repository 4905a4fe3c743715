package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/deutschlern/internal/logger"
	"github.com/abhisek/deutschlern/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with logging
// middleware. A provider without a credential is not an error: the returned
// Provider fails every call with *ErrAPIKeyNotSet until configuration is fixed.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	}

	var keyErr *ErrAPIKeyNotSet
	if errors.As(err, &keyErr) {
		if log != nil {
			log.Warn("llm provider has no api key", "provider", cfg.Provider, "env", keyErr.EnvVar)
		}
		return NewUnconfiguredProvider(keyErr, cfg.Model()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, cfg.Provider, eventRepo, log), nil
}
