package avatar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sinanisler/avatar-buddy/internal/history"
	"github.com/sinanisler/avatar-buddy/internal/models"
)

// proxyRecorder is an httptest handler capturing the requests the
// orchestrator sends.
type proxyRecorder struct {
	mu       sync.Mutex
	requests []models.ChatRequest
	respond  func(w http.ResponseWriter)
}

func (p *proxyRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	p.respond(w)
}

func (p *proxyRecorder) lastRequest(t *testing.T) models.ChatRequest {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.requests) == 0 {
		t.Fatal("proxy received no requests")
	}
	return p.requests[len(p.requests)-1]
}

func respondJSON(resp models.ChatResponse) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestOrchestratorSendSuccess(t *testing.T) {
	proxy := &proxyRecorder{respond: respondJSON(models.ChatResponse{Success: true, Answer: "hey."})}
	srv := httptest.NewServer(proxy)
	defer srv.Close()

	hist := history.New(10, nil)
	o := NewOrchestrator(srv.URL, hist, 5, WithHTTPClient(srv.Client()))

	out := o.Send(context.Background(), "say hello", models.ModeInitial)
	if !out.Success || out.Answer != "hey." {
		t.Fatalf("outcome = %+v, want success with answer", out)
	}

	req := proxy.lastRequest(t)
	if req.Prompt != "say hello" {
		t.Errorf("prompt = %q, must go out verbatim with empty history", req.Prompt)
	}
	if req.Type != string(models.ModeInitial) {
		t.Errorf("request type = %q, want initial", req.Type)
	}
}

func TestOrchestratorEnrichesPromptsWithHistory(t *testing.T) {
	// History survives reloads while the menu resets to first-time, so
	// enrichment must not depend on the request mode.
	for _, mode := range []models.ChatMode{models.ModeInitial, models.ModeContinue} {
		t.Run(string(mode), func(t *testing.T) {
			proxy := &proxyRecorder{respond: respondJSON(models.ChatResponse{Success: true, Answer: "ok"})}
			srv := httptest.NewServer(proxy)
			defer srv.Close()

			hist := history.New(10, nil)
			hist.Append(models.ConversationEntry{
				Timestamp: time.Now(), Kind: models.EntryKindButton,
				UserMessage: "who are you", AvatarResponse: "just some pixels.",
			})
			o := NewOrchestrator(srv.URL, hist, 5)

			o.Send(context.Background(), "tell me more", mode)

			req := proxy.lastRequest(t)
			if req.Type != string(mode) {
				t.Errorf("request type = %q, want %q", req.Type, mode)
			}
			if !strings.HasPrefix(req.Prompt, "tell me more") {
				t.Errorf("enriched prompt should start with the original, got %q", req.Prompt)
			}
			if !strings.Contains(req.Prompt, "Recent conversation:\nUser: who are you\nAvatar: just some pixels.\n") {
				t.Errorf("enriched prompt missing rendered history: %q", req.Prompt)
			}
		})
	}
}

func TestOrchestratorSkipsEnrichmentWithEmptyHistory(t *testing.T) {
	proxy := &proxyRecorder{respond: respondJSON(models.ChatResponse{Success: true, Answer: "ok"})}
	srv := httptest.NewServer(proxy)
	defer srv.Close()

	o := NewOrchestrator(srv.URL, history.New(10, nil), 5)
	o.Send(context.Background(), "tell me more", models.ModeContinue)

	if prompt := proxy.lastRequest(t).Prompt; prompt != "tell me more" {
		t.Errorf("empty history must not add a context block, got %q", prompt)
	}
}

func TestOrchestratorFailureModes(t *testing.T) {
	tests := []struct {
		name    string
		respond func(w http.ResponseWriter)
	}{
		{
			name: "server error status",
			respond: func(w http.ResponseWriter) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			respond: func(w http.ResponseWriter) {
				w.Write([]byte("{not json"))
			},
		},
		{
			name:    "proxy reports failure",
			respond: respondJSON(models.ChatResponse{Success: false}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(&proxyRecorder{respond: tt.respond})
			defer srv.Close()

			o := NewOrchestrator(srv.URL, history.New(10, nil), 5)
			if out := o.Send(context.Background(), "hi", models.ModeInitial); out.Success {
				t.Errorf("outcome = %+v, want failure", out)
			}
		})
	}
}

func TestOrchestratorUnreachableProxy(t *testing.T) {
	o := NewOrchestrator("http://127.0.0.1:0/api/chat", history.New(10, nil), 5)
	if out := o.Send(context.Background(), "hi", models.ModeInitial); out.Success {
		t.Errorf("outcome = %+v, want failure for unreachable proxy", out)
	}
}

func TestOrchestratorSendsConfiguredHeaders(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Request-Source")
		respondJSON(models.ChatResponse{Success: true, Answer: "ok"})(w)
	}))
	defer srv.Close()

	o := NewOrchestrator(srv.URL, history.New(10, nil), 5,
		WithHeader("X-Request-Source", "widget"))
	o.Send(context.Background(), "hi", models.ModeInitial)

	if gotHeader != "widget" {
		t.Errorf("header = %q, want widget", gotHeader)
	}
}
