// Package respond writes JSON responses in the server's envelope format.
package respond

import (
	"encoding/json"
	"net/http"
)

// Error categories used in the "error" field of failure bodies.
const (
	BadRequest          = "Bad Request"
	NotFound            = "Not Found"
	MethodNotAllowed    = "Method Not Allowed"
	PayloadTooLarge     = "Payload Too Large"
	InternalServerError = "Internal Server Error"
)

// Envelope is the success body: a message and an optional payload.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorBody is the failure body.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Message writes a success envelope.
func Message(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Message: message, Data: data})
}

// Error writes {"error": category, "message": message}; message may be empty.
func Error(w http.ResponseWriter, status int, category, message string) {
	JSON(w, status, ErrorBody{Error: category, Message: message})
}

// Text writes a plain-text body.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
