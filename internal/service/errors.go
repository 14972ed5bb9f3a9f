package service

import (
	"errors"
	"net/http"
)

// Error is a business failure carrying the HTTP status it maps to. The server
// layer translates these centrally; anything else becomes a generic 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// NotFound covers both absent entities and entities not owned by the caller.
func NotFound(msg string) error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Conflict is a business-rule violation (duplicate active session, invalid
// cross-references). Reported as 400, matching the API contract.
func Conflict(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Invalid is malformed or out-of-range input.
func Invalid(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized is a missing, invalid, or revoked credential.
func Unauthorized(msg string) error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// Upstream is a contained failure of an external dependency (the completion
// API). Never carries the raw upstream error text to the client.
func Upstream(msg string) error {
	return &Error{Status: http.StatusBadGateway, Message: msg}
}

// StatusOf returns the HTTP status for err: the carried status for *Error,
// 500 otherwise.
func StatusOf(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.Status
	}
	return http.StatusInternalServerError
}
