package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/claimguard/internal/model"
)

// NewProvider creates a new text-generation provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "groq":
		return NewGroqProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openai, groq, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts a model.ProviderConfig into an llm.Config,
// filling the API key from the conventional environment variable when
// the config does not carry one.
func ConfigFromModel(pc model.ProviderConfig, proxy model.ProxyConfig, maxTokens int) Config {
	cfg := Config{
		Provider:   pc.Name,
		Model:      pc.Model,
		APIKey:     pc.APIKey,
		BaseURL:    pc.BaseURL,
		Timeout:    pc.Timeout,
		MaxTokens:  maxTokens,
		HTTPProxy:  proxy.HTTPProxy,
		HTTPSProxy: proxy.HTTPSProxy,
		NoProxy:    proxy.NoProxy,
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(apiKeyEnvVar(pc.Name))
	}
	if cfg.BaseURL == "" && strings.EqualFold(pc.Name, "ollama") {
		cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	return cfg
}

// apiKeyEnvVar maps a provider name to its conventional API key variable
func apiKeyEnvVar(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "OPENAI_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	case "anthropic", "claude":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}
