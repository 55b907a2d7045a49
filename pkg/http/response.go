package http

import (
	"encoding/json"
	"net/http"
)

// FieldError describes a single failed validation constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// envelope is the uniform JSON response body: a success flag plus either
// data or an error message / field-error list.
type envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Token   string       `json:"token,omitempty"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Encoding errors are not recoverable at this point; headers are sent.
	_ = json.NewEncoder(w).Encode(body)
}

// WriteData writes a success response carrying data.
func WriteData(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, envelope{Success: true, Data: data})
}

// WriteToken writes a success response carrying a bearer token.
func WriteToken(w http.ResponseWriter, statusCode int, token string) {
	writeJSON(w, statusCode, envelope{Success: true, Token: token})
}

// WriteRaw writes a success response with an arbitrary pre-built body,
// used by list endpoints whose payload already carries count/pagination.
func WriteRaw(w http.ResponseWriter, statusCode int, body any) {
	writeJSON(w, statusCode, body)
}

// WriteError writes a failure response with a single message.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{Success: false, Error: message})
}

// WriteFieldErrors writes a failure response with field-level details.
func WriteFieldErrors(w http.ResponseWriter, statusCode int, errs []FieldError) {
	writeJSON(w, statusCode, envelope{Success: false, Errors: errs})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteUnprocessable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnprocessableEntity, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
