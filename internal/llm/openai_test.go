package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func openAIStub(t *testing.T, model string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "` + model + `",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "Paris is the capital of France."}, "finish_reason": "stop"}
			],
			"usage": {"prompt_tokens": 25, "completion_tokens": 8, "total_tokens": 33}
		}`))
	}))
}

func TestOpenAIProvider_Generate_Success(t *testing.T) {
	server := openAIStub(t, "gpt-4o")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Prompt: "What is the capital of France?",
		System: "Answer concisely.",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != "Paris is the capital of France." {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 33 {
		t.Errorf("Expected 33 tokens from usage, got %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestGroqProvider_Name(t *testing.T) {
	provider, err := NewGroqProvider(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.Name() != "groq" {
		t.Errorf("Expected name groq, got %s", provider.Name())
	}
}

func TestGroqProvider_Generate_UsesOpenAIWire(t *testing.T) {
	server := openAIStub(t, "llama-3.3-70b-versatile")
	defer server.Close()

	provider, err := NewGroqProvider(Config{APIKey: "test-key", BaseURL: server.URL, Model: "llama-3.3-70b-versatile", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "What is the capital of France?"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Model != "llama-3.3-70b-versatile" {
		t.Errorf("Unexpected model: %s", resp.Model)
	}
}

func TestOpenAIProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "anything"}); err == nil {
		t.Error("Expected error for unauthorized response")
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("Expected 0 tokens for empty text, got %d", got)
	}
	if got := EstimateTokens("ten words of text in this particular short test sentence"); got != 13 {
		t.Errorf("Expected 13 tokens for ten words, got %d", got)
	}
}
