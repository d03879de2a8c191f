package webflow

import (
	"fmt"
	"net/http"
)

// UnknownError is reported when the API gives no message of its own.
const UnknownError = "unknown error"

// APIError is a non-success reply from the Items API, or a success reply
// that carried no item id.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("webflow: status %d: %s", e.StatusCode, e.Message)
}

// APIMessage returns the message reported by the CMS.
func (e *APIError) APIMessage() string {
	return e.Message
}

// Unauthorized reports whether the token was rejected or lacks scope.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
