package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error is a non-2xx API response. Auth failures that exhausted the
// single retry surface through this type as well.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// HTTPStatus lets callers outside this package classify failures
// without depending on the concrete error type.
func (e *Error) HTTPStatus() int {
	return e.Status
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func newStatusError(status int, body []byte) *Error {
	message := strings.TrimSpace(string(body))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		message = payload.Error
	}

	return &Error{Status: status, Message: message}
}
