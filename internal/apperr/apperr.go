package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotAuthenticated is returned by the session gate when the collaborator
// reports no authenticated session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ValidationError is a local pre-flight failure; no network call was made.
type ValidationError struct {
	Missing []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return strings.Join(e.Missing, ", ") + " required"
}

// NewMissingFields builds the validation error for blank required fields.
func NewMissingFields(fields ...string) error {
	return &ValidationError{
		Missing: fields,
		Message: fmt.Sprintf("Missing required fields: %s.", strings.Join(fields, ", ")),
	}
}

// APIError is any non-success collaborator response, reduced to the single
// string shown to the operator.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API error: %d", e.Status)
}

// DecodeAPIError extracts a structured detail field from an error response
// body. detail may be a string or a list of {msg} objects, which are joined
// with a separator; anything else falls back to the generic status message.
func DecodeAPIError(status int, body []byte) error {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil && strings.TrimSpace(detail) != "" {
			return &APIError{Status: status, Detail: detail}
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return &APIError{Status: status, Detail: strings.Join(msgs, " · ")}
			}
		}
	}
	return &APIError{Status: status}
}
