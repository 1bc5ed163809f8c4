package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestOpenRouterProvider points an OpenRouter provider at a local server
// and records the last request body.
func newTestOpenRouterProvider(t *testing.T, model string) (*OpenRouterProvider, *map[string]any) {
	t.Helper()
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body = nil
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion([]map[string]any{
			{"index": 0, "message": map[string]any{"role": "assistant", "content": "rockets need thrust"}, "finish_reason": "stop"},
		}))
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   model,
		BaseURL: server.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p, &body
}

func TestNewOpenRouterProvider_DefaultTierModel(t *testing.T) {
	cfg := DefaultConfig().OpenRouter
	cfg.APIKey = "sk-or-test"

	p, err := NewOpenRouterProvider(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "openai/o1-mini" {
		t.Errorf("model = %q, want %q", p.ModelID(), "openai/o1-mini")
	}
}

func TestNewOpenRouterProvider_EmptyAPIKey(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/o1-mini"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestOpenRouterProvider_PrimaryTierOmitsTemperature(t *testing.T) {
	p, body := newTestOpenRouterProvider(t, "anthropic/claude-3-haiku")

	resp, err := p.Generate(context.Background(), UserPrompt("Create a STEM challenge for the topic: rockets.", 512, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "rockets need thrust" {
		t.Errorf("text = %q", resp.Text)
	}
	if _, ok := (*body)["temperature"]; ok {
		t.Errorf("nil temperature must be omitted, got %v", (*body)["temperature"])
	}
	if (*body)["model"] != "anthropic/claude-3-haiku" {
		t.Errorf("model id must pass through unchanged, got %v", (*body)["model"])
	}
	if (*body)["max_completion_tokens"] != float64(512) {
		t.Errorf("max_completion_tokens = %v, want 512", (*body)["max_completion_tokens"])
	}
}

func TestOpenRouterProvider_FallbackTierTemperature(t *testing.T) {
	tests := []struct {
		model    string
		wantTemp bool
	}{
		{"anthropic/claude-3-haiku", true},
		{"openai/o1-mini", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			p, body := newTestOpenRouterProvider(t, tt.model)
			if _, err := p.Generate(context.Background(), UserPrompt("x", 512, Float(0))); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			_, ok := (*body)["temperature"]
			if ok != tt.wantTemp {
				t.Errorf("temperature sent = %v, want %v (body %v)", ok, tt.wantTemp, *body)
			}
		})
	}
}
