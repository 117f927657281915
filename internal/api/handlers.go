package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sinanisler/avatar-buddy/internal/models"
)

// chatHandler implements the proxy wire contract: {"prompt","type"} in,
// {"success":true,"answer"} out. Failures come back as a non-2xx status with
// an error envelope; the orchestrator folds them all into one failure outcome.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("API key not configured"))
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("api: failed to decode chat request", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("invalid request body"))
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("prompt is required"))
		return
	}

	answer, err := s.generator.Generate(r.Context(), s.settings.SystemPrompt(), req.Prompt)
	if err != nil {
		slog.Error("api: chat generation failed", "type", req.Type, "error", err)
		writeJSONResponse(w, http.StatusBadGateway, models.Error("generation failed"))
		return
	}

	slog.Debug("api: chat request served", "type", req.Type, "answer_len", len(answer))
	writeJSONResponse(w, http.StatusOK, models.ChatResponse{Success: true, Answer: answer})
}

// configHandler serves the client-safe settings snapshot. API credentials are
// excluded by construction.
func (s *Server) configHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, s.settings.Client())
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]string{"status": "healthy"}))
}
