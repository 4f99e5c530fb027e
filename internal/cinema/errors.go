package cinema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrAuthRequired signals that the upstream rejected the call with 401;
// callers surface a login prompt instead of a generic error.
var ErrAuthRequired = errors.New("authentication required")

// NetworkError wraps a transport-level failure: no usable response was
// received (connection refused, timeout, truncated body).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cinema api unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError is a non-2xx upstream response with a structured body. The
// message is extracted once and shown to the user verbatim.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// extractMessage pulls a user-facing message out of an upstream error body.
// Priority order: plain string body, then a detail/error/message field,
// then flattened field-level errors. Field errors keep their multi-line
// shape: non_field_errors entries come first and unprefixed, remaining
// fields are prefixed "field: message" in stable order.
func extractMessage(body []byte, fallback string) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fallback
	}

	var plain string
	if err := json.Unmarshal(trimmed, &plain); err == nil {
		if plain != "" {
			return plain
		}
		return fallback
	}

	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fallback
	}

	for _, key := range []string{"detail", "error", "message"} {
		if msg, ok := obj[key].(string); ok && msg != "" {
			return msg
		}
	}

	messages := collectFieldErrors(obj)
	if len(messages) > 0 {
		return strings.Join(messages, "\n")
	}

	return fallback
}

func collectFieldErrors(obj map[string]any) []string {
	var messages []string

	messages = appendFieldErrors(messages, "non_field_errors", obj["non_field_errors"])

	keys := make([]string, 0, len(obj))
	for key := range obj {
		if key != "non_field_errors" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		messages = appendFieldErrors(messages, key, obj[key])
	}

	return messages
}

func appendFieldErrors(messages []string, field string, value any) []string {
	format := func(msg string) string {
		if field == "non_field_errors" {
			return msg
		}
		return fmt.Sprintf("%s: %s", field, msg)
	}

	switch v := value.(type) {
	case string:
		messages = append(messages, format(v))
	case []any:
		for _, item := range v {
			if msg, ok := item.(string); ok {
				messages = append(messages, format(msg))
			}
		}
	}

	return messages
}
