package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSONResponse marshals payload and writes it with the given status. If
// marshaling fails it degrades to a pre-marshaled error envelope so the client
// always receives valid JSON.
func writeJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("api: failed to marshal response payload", "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"status":"error","message":"internal marshaling error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("api: failed to write response body", "error", err)
	}
}
