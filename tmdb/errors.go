package tmdb

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidEndpoint indicates an empty or malformed endpoint path
	ErrInvalidEndpoint = errors.New("a valid TMDB endpoint is required")
	// ErrMissingAPIKey indicates the server has no TMDB API key
	ErrMissingAPIKey = errors.New("TMDB API key is not configured")
	// ErrEmptyResponse indicates a successful response without a body
	ErrEmptyResponse = errors.New("empty response from TMDB")
)

// APIError is a non-2xx response from TMDB.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

// Error reports the upstream status text, e.g. "TMDB API error: Not Found".
func (e *APIError) Error() string {
	return "TMDB API error: " + e.Status
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if TMDB rejected the API key
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
