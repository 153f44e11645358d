package llm

import (
	"context"
	"strings"
)

// Provider defines the interface for text-generation providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces text for the given request
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for a text-generation call
type GenerateRequest struct {
	// Prompt is the user-facing content
	Prompt string

	// System is an optional system instruction
	System string

	// Model overrides the provider's configured model (provider-specific name)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling; fact-oriented callers pass 0
	Temperature float64
}

// GenerateResponse contains the provider's output
type GenerateResponse struct {
	// Text is the generated content
	Text string

	// Model is the model that produced the response
	Model string

	// TokensUsed is total token consumption as reported by the provider,
	// or an estimate when the provider does not report usage
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "groq", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (Groq, Ollama, proxies)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens default for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 2000,
	}
}

// EstimateTokens approximates token count from whitespace-separated words.
// Used when a provider does not report usage and for cost projections.
func EstimateTokens(text string) int {
	return int(float64(len(strings.Fields(text))) * 1.3)
}
