// Package response writes the uniform API envelope the console consumes:
// {statusCode, data?, message?, error?}. Data is present exactly on success,
// so clients can treat its presence as the success discriminator.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Details    any    `json:"details,omitempty"`
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	write(w, r, Envelope{StatusCode: status, Data: data})
}

// Error writes a failure envelope. Code is a stable machine-readable token
// (BAD_REQUEST, NOT_FOUND, ...), message the human-readable reason the
// console surfaces in its notification toast. Details, when provided, carry
// structured context (missing permission tokens, failed probes) in their own
// field; data stays success-only.
func Error(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	write(w, r, Envelope{StatusCode: status, Error: code, Message: message, Details: details})
}

func write(w http.ResponseWriter, r *http.Request, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(env.StatusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.ErrorContext(r.Context(), "write response envelope", "error", err)
	}
}
