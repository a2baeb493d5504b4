package respond

import "time"

// Config holds generation settings for grounded responses.
type Config struct {
	MaxTokens   int
	Temperature float64

	// GenerateTimeout bounds one generation call. On expiry the caller
	// gets the templated fallback instead of an error.
	GenerateTimeout time.Duration
}

// DefaultConfig returns sensible defaults for grounded generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:       300,
		Temperature:     0.4,
		GenerateTimeout: 10 * time.Second,
	}
}
