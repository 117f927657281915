// Package api exposes the avatar's HTTP surface: the chat proxy endpoint the
// dialogue controller calls, the client configuration snapshot, and a health
// check. The proxy exists so the upstream API key never reaches the page.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sinanisler/avatar-buddy/internal/config"
)

const defaultAddr = ":8080"

// Generator produces one chat completion. Implemented by genai.Client; faked
// in tests.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Server is the HTTP server for the avatar backend.
type Server struct {
	addr      string
	settings  *config.Settings
	generator Generator
	httpSrv   *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address. Default is ":8080".
func WithAddr(addr string) ServerOption {
	return func(s *Server) { s.addr = addr }
}

// NewServer creates the API server. generator may be nil when no API key is
// configured; the chat endpoint then rejects requests with a clear error
// instead of the server failing to start.
func NewServer(settings *config.Settings, generator Generator, opts ...ServerOption) *Server {
	s := &Server{
		addr:      defaultAddr,
		settings:  settings,
		generator: generator,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.chatHandler)
	mux.HandleFunc("GET /api/config", s.configHandler)
	mux.HandleFunc("GET /health", s.healthHandler)

	s.httpSrv = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Handler returns the server's HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Run starts the server and blocks until ctx is canceled or the listener
// fails. On cancellation it shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api: server listening", "addr", s.addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("api: shutting down")
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}
