// Package genai wraps the upstream OpenAI-compatible chat completion API used
// by the chat proxy endpoint. The avatar never talks to the model vendor
// directly; everything goes through this client so the API key stays
// server-side.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

// Defaults applied when no option overrides them.
const (
	DefaultModel       = "anthropic/claude-3.5-haiku"
	DefaultTemperature = 0.9
	DefaultMaxTokens   = 180
	defaultTimeout     = 30 * time.Second
)

// ErrAPIKeyMissing is returned by NewClient when no API key was provided.
var ErrAPIKeyMissing = errors.New("genai: API key not configured")

// Client generates chat completions against an OpenAI-compatible endpoint.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// Opts holds configuration for the client.
type Opts struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Option configures the client.
type Option func(*Opts)

// WithAPIKey sets the upstream API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithBaseURL points the client at a non-default endpoint, e.g. OpenRouter.
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *Opts) { o.Temperature = t }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option {
	return func(o *Opts) { o.MaxTokens = n }
}

// WithHTTPTimeout bounds each upstream request.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// NewClient creates a generation client. The API key is required; everything
// else has defaults.
func NewClient(opts ...Option) (*Client, error) {
	cfg := Opts{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     defaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}

	c := &Client{
		api:         openai.NewClient(reqOpts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
	slog.Debug("genai: client created", "model", c.model, "base_url", cfg.BaseURL,
		"temperature", c.temperature, "max_tokens", c.maxTokens)
	return c, nil
}

// Generate produces one completion for the given system and user prompts.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	}
	params.Temperature = param.NewOpt(c.temperature)
	params.MaxCompletionTokens = param.NewOpt(int64(c.maxTokens))

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("genai: completion request failed", "model", c.model, "error", err)
		return "", fmt.Errorf("genai: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Error("genai: completion returned no choices", "model", c.model)
		return "", errors.New("genai: completion returned no choices")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	slog.Debug("genai: completion succeeded", "model", c.model, "answer_len", len(answer))
	return answer, nil
}
