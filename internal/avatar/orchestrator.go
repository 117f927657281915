package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sinanisler/avatar-buddy/internal/history"
	"github.com/sinanisler/avatar-buddy/internal/models"
)

// contextPreamble introduces the recent-history block appended to prompts.
const contextPreamble = "\n\nRecent conversation:\n"

// Orchestrator is the Sender that talks to the chat proxy over HTTP. It
// enriches outgoing prompts with recent history and folds every failure mode
// into Outcome{Success: false}; the controller never sees an error value.
type Orchestrator struct {
	endpoint     string
	client       *http.Client
	history      *history.Store
	contextLimit int
	headers      map[string]string
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) OrchestratorOption {
	return func(o *Orchestrator) { o.client = client }
}

// WithHeader adds a header to every proxy request.
func WithHeader(key, value string) OrchestratorOption {
	return func(o *Orchestrator) { o.headers[key] = value }
}

// NewOrchestrator creates an orchestrator posting to endpoint. contextLimit is
// the maximum number of recent exchanges rendered into continue-mode prompts.
func NewOrchestrator(endpoint string, hist *history.Store, contextLimit int, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		endpoint:     endpoint,
		client:       &http.Client{Timeout: 30 * time.Second},
		history:      hist,
		contextLimit: contextLimit,
		headers:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Send posts one chat request and returns its outcome. Whenever history holds
// any entries the outgoing prompt carries the rendered recent exchanges so the
// stateless proxy can keep the thread coherent; mode only selects the wire
// type. History survives reloads, so even the canned first-menu prompts can go
// out with context.
func (o *Orchestrator) Send(ctx context.Context, prompt string, mode models.ChatMode) models.Outcome {
	if view := o.history.RenderContext(o.contextLimit); view != "" {
		prompt += contextPreamble + view
	}

	resp, err := o.post(ctx, models.ChatRequest{Prompt: prompt, Type: string(mode)})
	if err != nil {
		slog.Error("orchestrator: chat request failed", "mode", mode, "error", err)
		return models.Outcome{}
	}
	if !resp.Success {
		slog.Error("orchestrator: proxy reported failure", "mode", mode)
		return models.Outcome{}
	}
	slog.Debug("orchestrator: chat request succeeded", "mode", mode, "answer_len", len(resp.Answer))
	return models.Outcome{Success: true, Answer: resp.Answer}
}

func (o *Orchestrator) post(ctx context.Context, reqBody models.ChatRequest) (*models.ChatResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range o.headers {
		req.Header.Set(k, v)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", o.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("proxy returned status %d", resp.StatusCode)
	}

	var chatResp models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &chatResp, nil
}
