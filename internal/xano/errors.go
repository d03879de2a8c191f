package xano

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-success reply from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("xano: status %d: %s", e.StatusCode, e.Message)
}

// APIMessage returns the message reported by the backend.
func (e *APIError) APIMessage() string {
	return e.Message
}

// Unauthorized reports whether the token was rejected or lacks scope.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func apiError(status int, body []byte) *APIError {
	var er struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &er)

	msg := er.Message
	if msg == "" {
		msg = string(body)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
