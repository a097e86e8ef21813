package apperr

import (
	"net/http"
	"time"
)

const (
	TypeValidation = "VALIDATION_ERROR"
	TypeAuth       = "AUTH_ERROR"
	TypeNotFound   = "NOT_FOUND_ERROR"
	TypeConflict   = "CONFLICT_ERROR"
	TypeInternal   = "INTERNAL_ERROR"
)

// Error is the application error carried from the service layer to the
// HTTP boundary, where it is rendered as a uniform JSON envelope.
type Error struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"-"`
}

func (e *Error) Error() string {
	return e.Type + ": " + e.Message
}

func newError(typ, message string, status int, details any) *Error {
	return &Error{
		Type:      typ,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		Status:    status,
	}
}

func Validation(message string, details any) *Error {
	return newError(TypeValidation, message, http.StatusBadRequest, details)
}

func Auth(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return newError(TypeAuth, message, http.StatusUnauthorized, nil)
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return newError(TypeNotFound, message, http.StatusNotFound, nil)
}

func Conflict(message string) *Error {
	if message == "" {
		message = "Conflict"
	}
	return newError(TypeConflict, message, http.StatusConflict, nil)
}

func Internal(message string) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return newError(TypeInternal, message, http.StatusInternalServerError, nil)
}
