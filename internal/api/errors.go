// Package api implements the HTTP client for the SchoolWave REST API.
// Responses arrive in a {"data": ...} envelope; failures carry a
// {"message": ...} body and are normalized into a tagged Error exactly
// once at this boundary.
package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an API failure for pattern matching at call
// sites. Anything without a structured error body is ErrorUnknown.
type ErrorKind string

const (
	ErrorInvalidCredentials ErrorKind = "invalid_credentials"
	ErrorUnauthorized       ErrorKind = "unauthorized"
	ErrorNotFound           ErrorKind = "not_found"
	ErrorUnknown            ErrorKind = "unknown"
)

// Error is the tagged result produced at the transport boundary.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (%s, status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("api error (%s, status %d): %s", e.Kind, e.Status, e.Message)
}

// KindOf returns the error's kind, or ErrorUnknown for anything that is
// not an *Error.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ErrorUnknown
}

// IsInvalidCredentials reports whether err is a wrong phone/password
// combination. This is a normal, user-recoverable outcome.
func IsInvalidCredentials(err error) bool {
	return KindOf(err) == ErrorInvalidCredentials
}

// IsUnauthorized reports whether err is a session-invalidating 401.
func IsUnauthorized(err error) bool {
	return KindOf(err) == ErrorUnauthorized
}
