package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/studybuddy/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base.
	// Logging sits inside retry so every attempt is recorded.
	logged := WithLogging(base, cfg.Provider, eventRepo)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// NewProviderFromEnv builds a provider from STUDYBUDDY_* configuration.
// When no provider is explicitly selected and the configured default has
// no key, it falls back to probing bare provider API key variables.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg := ConfigFromEnv()
	err := cfg.Validate()
	if err == nil {
		return NewProvider(ctx, cfg, eventRepo)
	}
	if os.Getenv("STUDYBUDDY_LLM_PROVIDER") != "" {
		// An explicit selection with a missing key is a config error,
		// not a reason to silently switch providers.
		return nil, err
	}

	discovered, ok := DiscoverConfig()
	if !ok {
		return nil, err
	}
	return NewProvider(ctx, discovered, eventRepo)
}
