package explore

import "time"

// Config controls the generator.
type Config struct {
	// MaxTokens caps the completion length for both tiers.
	MaxTokens int

	// MinWords is the word count below which the primary text is replaced
	// by the fallback tier's text.
	MinWords int

	// FallbackTemperature is sent explicitly to the fallback tier. The
	// primary tier always uses the service default.
	FallbackTemperature float64

	// StreamDelay is the pause between streamed words.
	StreamDelay time.Duration
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:           512,
		MinWords:            50,
		FallbackTemperature: 0,
		StreamDelay:         50 * time.Millisecond,
	}
}
