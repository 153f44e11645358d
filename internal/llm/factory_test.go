package llm

import (
	"testing"

	"github.com/ppiankov/claimguard/internal/model"
)

func TestNewProvider_KnownProviders(t *testing.T) {
	cases := []struct {
		provider string
		wantName string
	}{
		{"openai", "openai"},
		{"groq", "groq"},
		{"anthropic", "anthropic"},
		{"claude", "anthropic"},
		{"ollama", "ollama"},
		{"OLLAMA", "ollama"},
	}

	for _, tc := range cases {
		p, err := NewProvider(Config{Provider: tc.provider, APIKey: "test-key"})
		if err != nil {
			t.Errorf("NewProvider(%s) failed: %v", tc.provider, err)
			continue
		}
		if p.Name() != tc.wantName {
			t.Errorf("NewProvider(%s).Name() = %s, want %s", tc.provider, p.Name(), tc.wantName)
		}
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "bedrock"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestConfigFromModel_APIKeyFromEnv(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg := ConfigFromModel(model.ProviderConfig{Name: "groq", Model: "llama-3.3-70b-versatile"}, model.ProxyConfig{}, 2000)

	if cfg.APIKey != "gsk_test" {
		t.Errorf("Expected API key from env, got %q", cfg.APIKey)
	}
	if cfg.MaxTokens != 2000 {
		t.Errorf("Expected max tokens propagated, got %d", cfg.MaxTokens)
	}
}

func TestConfigFromModel_ExplicitKeyWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg := ConfigFromModel(model.ProviderConfig{Name: "openai", APIKey: "explicit-key"}, model.ProxyConfig{}, 1000)

	if cfg.APIKey != "explicit-key" {
		t.Errorf("Expected explicit key to win over env, got %q", cfg.APIKey)
	}
}

func TestConfigFromModel_OllamaBaseURL(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	cfg := ConfigFromModel(model.ProviderConfig{Name: "ollama", Model: "mistral"}, model.ProxyConfig{}, 1000)

	if cfg.BaseURL != "http://gpu-box:11434" {
		t.Errorf("Expected base URL from env, got %q", cfg.BaseURL)
	}
}
