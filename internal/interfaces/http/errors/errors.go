package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents the standard error envelope
type ErrorResponse struct {
	Success bool          `json:"success"`
	Error   int           `json:"error"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents a validation error detail
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Standard messages of the error envelope
const (
	MsgBadRequest          = "bad request"
	MsgNotFound            = "resource not found"
	MsgMethodNotAllowed    = "method not allowed"
	MsgUnprocessable       = "unprocessable"
	MsgInternalServerError = "internal server error"
)

// RespondWithError sends a standardized error response
func RespondWithError(w http.ResponseWriter, status int, message string, details []ErrorDetail) {
	RespondJSON(w, status, ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
		Details: details,
	})
}

// RespondJSON writes payload as JSON with the given status
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// NotFound renders the envelope for unmatched routes
func NotFound(w http.ResponseWriter, _ *http.Request) {
	RespondWithError(w, http.StatusNotFound, MsgNotFound, nil)
}

// MethodNotAllowed renders the envelope for unsupported methods
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	RespondWithError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed, nil)
}
