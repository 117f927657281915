package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sinanisler/avatar-buddy/internal/config"
	"github.com/sinanisler/avatar-buddy/internal/models"
)

// fakeGenerator records the prompts it was called with.
type fakeGenerator struct {
	answer       string
	err          error
	systemPrompt string
	userPrompt   string
}

func (g *fakeGenerator) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	g.systemPrompt = systemPrompt
	g.userPrompt = userPrompt
	return g.answer, g.err
}

func newTestServer(t *testing.T, generator Generator) *Server {
	t.Helper()
	settings := config.Default()
	if err := settings.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
	return NewServer(settings, generator)
}

func doChat(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestChatHandlerSuccess(t *testing.T) {
	gen := &fakeGenerator{answer: "hey. what do you want?"}
	s := newTestServer(t, gen)

	rec := doChat(t, s, `{"prompt":"say hello","type":"initial"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Answer != "hey. what do you want?" {
		t.Errorf("response = %+v, want success with answer", resp)
	}

	if gen.userPrompt != "say hello" {
		t.Errorf("generator got prompt %q", gen.userPrompt)
	}
	if !strings.Contains(gen.systemPrompt, "laid-back") {
		t.Errorf("generator should get the personality system prompt, got %q", gen.systemPrompt)
	}
}

func TestChatHandlerWithoutGenerator(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doChat(t, s, `{"prompt":"hi","type":"initial"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "API key not configured") {
		t.Errorf("body = %s, want API key error", rec.Body.String())
	}
}

func TestChatHandlerRejectsBadRequests(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{answer: "ok"})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing prompt", `{"type":"initial"}`},
		{"blank prompt", `{"prompt":"   ","type":"initial"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doChat(t, s, tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestChatHandlerGenerationFailure(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{err: errors.New("upstream timeout")})

	rec := doChat(t, s, `{"prompt":"hi","type":"initial"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	// The upstream error detail stays server-side.
	if strings.Contains(rec.Body.String(), "upstream timeout") {
		t.Errorf("body leaks upstream error: %s", rec.Body.String())
	}
}

func TestConfigHandlerServesClientSnapshot(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap config.ClientSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if snap.WalkSpeedMs != 50 || snap.PositionSide != config.SideLeft {
		t.Errorf("snapshot = %+v, want defaults", snap)
	}
	if strings.Contains(rec.Body.String(), "apiKey") {
		t.Errorf("snapshot must not carry API settings: %s", rec.Body.String())
	}
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("body = %s, want healthy status", rec.Body.String())
	}
}

func TestChatHandlerMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{answer: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
