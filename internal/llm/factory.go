package llm

import (
	"context"
	"fmt"

	"github.com/stemlab/exploratorium/internal/logger"
	"github.com/stemlab/exploratorium/internal/store"
)

// Tiers holds the two generation services, constructed once by the
// application entry point and passed into the content generator.
type Tiers struct {
	Primary  Provider
	Fallback Provider
}

// NewTiers validates cfg and builds both tier providers.
func NewTiers(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Tiers, error) {
	if err := cfg.Validate(); err != nil {
		return Tiers{}, err
	}
	primary, err := NewProvider(ctx, cfg, cfg.Primary, eventRepo, log)
	if err != nil {
		return Tiers{}, fmt.Errorf("primary tier: %w", err)
	}
	fallback, err := NewProvider(ctx, cfg, cfg.Fallback, eventRepo, log)
	if err != nil {
		return Tiers{}, fmt.Errorf("fallback tier: %w", err)
	}
	return Tiers{Primary: primary, Fallback: fallback}, nil
}

// NewProvider creates the named Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, name string, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch name {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", name, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, name, eventRepo, log)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}
