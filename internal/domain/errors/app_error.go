package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents a resource-level error raised by the drinks service
// @Description An application error with an HTTP status and a message
type AppError struct {
	Code    string `json:"code"`
	Status  int    `json:"error"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error codes
const (
	BadRequestError    = "BAD_REQUEST"
	NotFoundError      = "NOT_FOUND"
	ConflictError      = "CONFLICT"
	UnprocessableError = "UNPROCESSABLE"
	InternalError      = "INTERNAL"
)

// Error returns the error message
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: BadRequestError, Status: http.StatusBadRequest, Message: message}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: NotFoundError, Status: http.StatusNotFound, Message: message}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{Code: ConflictError, Status: http.StatusConflict, Message: message}
}

// NewUnprocessableError creates a new unprocessable entity error
func NewUnprocessableError(message string, err error) *AppError {
	return &AppError{Code: UnprocessableError, Status: http.StatusUnprocessableEntity, Message: message, Err: err}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{Code: InternalError, Status: http.StatusInternalServerError, Message: message, Err: err}
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsBadRequestError checks if the error is a bad request error
func IsBadRequestError(err error) bool {
	return hasCode(err, BadRequestError)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return hasCode(err, NotFoundError)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return hasCode(err, ConflictError)
}

// IsUnprocessableError checks if the error is an unprocessable entity error
func IsUnprocessableError(err error) bool {
	return hasCode(err, UnprocessableError)
}

// IsInternalError checks if the error is an internal error
func IsInternalError(err error) bool {
	return hasCode(err, InternalError)
}
