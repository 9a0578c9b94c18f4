package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized indicates the server rejected the bearer token or
	// credentials. RequestError values with a 401/403 status match it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrServerUnavailable indicates the server could not be reached at all.
	ErrServerUnavailable = errors.New("server unavailable")
)

// RequestError is a non-2xx response from the service, carrying the
// server-supplied message when the body was decodable.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// Is lets callers branch on errors.Is(err, ErrUnauthorized) without
// inspecting status codes themselves.
func (e *RequestError) Is(target error) bool {
	if target == ErrUnauthorized {
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}
