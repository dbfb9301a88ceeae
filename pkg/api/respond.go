package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes a success envelope with the given payload.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Success: true, Data: data}); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// WriteError writes a failure envelope with a human-readable message.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Success: false, Message: message}); err != nil {
		slog.Error("Failed to write error response", "error", err)
	}
}
