package genai

import (
	"errors"
	"testing"
	"time"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(); !errors.Is(err, ErrAPIKeyMissing) {
		t.Fatalf("expected ErrAPIKeyMissing, got %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient(WithAPIKey("sk-test"))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if c.model != DefaultModel {
		t.Errorf("model = %q, want default", c.model)
	}
	if c.temperature != DefaultTemperature || c.maxTokens != DefaultMaxTokens {
		t.Errorf("sampling defaults = %v/%d, want %v/%d",
			c.temperature, c.maxTokens, DefaultTemperature, DefaultMaxTokens)
	}
}

func TestNewClientOptions(t *testing.T) {
	c, err := NewClient(
		WithAPIKey("sk-test"),
		WithBaseURL("https://openrouter.ai/api/v1"),
		WithModel("openai/gpt-4o-mini"),
		WithTemperature(0.2),
		WithMaxTokens(64),
		WithHTTPTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if c.model != "openai/gpt-4o-mini" {
		t.Errorf("model = %q", c.model)
	}
	if c.temperature != 0.2 || c.maxTokens != 64 {
		t.Errorf("sampling = %v/%d, want 0.2/64", c.temperature, c.maxTokens)
	}
}
