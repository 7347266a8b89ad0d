package mockapi

import (
	"encoding/json"
	"net/http"
)

// envelope mirrors the marketplace backend's uniform response wrapper.
type envelope struct {
	Status     bool   `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{
		Status:     true,
		StatusCode: code,
		Message:    message,
		Data:       data,
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{
		Status:     false,
		StatusCode: code,
		Message:    message,
	})
}
