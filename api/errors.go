package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx response from the cinestream server.
type StatusError struct {
	StatusCode int
	ErrorText  string
	Message    string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	switch {
	case e.ErrorText != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.ErrorText, e.Message)
	case e.Message != "":
		return e.Message
	default:
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
}

// IsUnauthorized checks if the request needs a signed-in user
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound checks if the error indicates a not found response
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsBadRequest checks if the server rejected the input
func (e *StatusError) IsBadRequest() bool {
	return e.StatusCode == http.StatusBadRequest
}

func newStatusError(status int, body []byte) *StatusError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	return &StatusError{
		StatusCode: status,
		ErrorText:  payload.Error,
		Message:    payload.Message,
	}
}
