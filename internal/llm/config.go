package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted for the primary and fallback tiers.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Primary selects the provider for the first generation tier.
	Primary string

	// Fallback selects the provider used when the primary result is too short.
	Fallback string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-3-5-sonnet"
}

// OpenAIConfig holds configuration for OpenAI-compatible chat APIs.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "o1-mini"
	BaseURL string // Default: "https://api.aimlapi.com"
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "openai/o1-mini"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 disables retries.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the stock tier layout: an OpenAI-compatible primary
// behind the AIML API and an Anthropic fallback.
func DefaultConfig() Config {
	return Config{
		Primary:  ProviderOpenAI,
		Fallback: ProviderAnthropic,
		Anthropic: AnthropicConfig{
			Model: "claude-3-5-sonnet",
		},
		OpenAI: OpenAIConfig{
			Model:   "o1-mini",
			BaseURL: defaultAIMLBaseURL,
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "openai/o1-mini",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. Prefixed variables win over the standard
// vendor names (OPENAI_API_KEY, ANTHROPIC_API_KEY, ...).
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("EXPLORATORIUM_PRIMARY"); p != "" {
		cfg.Primary = p
	}
	if p := os.Getenv("EXPLORATORIUM_FALLBACK"); p != "" {
		cfg.Fallback = p
	}

	cfg.OpenAI.APIKey = firstEnv("EXPLORATORIUM_OPENAI_API_KEY", "OPENAI_API_KEY")
	if m := os.Getenv("EXPLORATORIUM_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("EXPLORATORIUM_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	cfg.Anthropic.APIKey = firstEnv("EXPLORATORIUM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	if m := os.Getenv("EXPLORATORIUM_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	cfg.Gemini.APIKey = firstEnv("EXPLORATORIUM_GEMINI_API_KEY", "GEMINI_API_KEY")
	if m := os.Getenv("EXPLORATORIUM_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	cfg.OpenRouter.APIKey = firstEnv("EXPLORATORIUM_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	if m := os.Getenv("EXPLORATORIUM_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	if n, err := strconv.Atoi(os.Getenv("EXPLORATORIUM_RETRY_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}

	return cfg
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks that both tiers name a known provider with its API key set.
func (c Config) Validate() error {
	if err := c.validateTier("primary", c.Primary); err != nil {
		return err
	}
	return c.validateTier("fallback", c.Fallback)
}

func (c Config) validateTier(tier, provider string) error {
	switch provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("%s tier: EXPLORATORIUM_ANTHROPIC_API_KEY is required for the anthropic provider", tier)
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%s tier: EXPLORATORIUM_OPENAI_API_KEY is required for the openai provider", tier)
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%s tier: EXPLORATORIUM_GEMINI_API_KEY is required for the gemini provider", tier)
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("%s tier: EXPLORATORIUM_OPENROUTER_API_KEY is required for the openrouter provider", tier)
		}
	case "":
		return fmt.Errorf("%s tier: no LLM provider configured", tier)
	default:
		return fmt.Errorf("%s tier: unknown LLM provider: %q", tier, provider)
	}
	return nil
}
