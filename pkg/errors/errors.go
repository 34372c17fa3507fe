// Package errors defines the error types surfaced by the SentimentInvestor client.
package errors

import (
	"fmt"
	"strings"
)

// ConfigError indicates a problem with the client configuration, such as a
// missing API token or key. It is returned at construction time, never at
// first use.
type ConfigError struct {
	// Field contains the name of the configuration field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// AuthError indicates the service rejected the supplied token or key.
// The API signals credential failures as a bare string body rather than
// structured JSON, so Body holds that raw text.
type AuthError struct {
	// StatusCode is the HTTP status code of the rejecting response, if any
	StatusCode int
	// Body contains the raw response body (e.g. "incorrect_key")
	Body string
	// Message contains an additional error message, if any
	Message string
}

func (e *AuthError) Error() string {
	var sb strings.Builder
	sb.WriteString("auth error")
	if e.StatusCode > 0 {
		fmt.Fprintf(&sb, ": status code %d", e.StatusCode)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}
	if e.Message != "" {
		fmt.Fprintf(&sb, ", %s", e.Message)
	}
	return sb.String()
}

// ProtocolError indicates the service returned a body that is not valid
// JSON. Body carries the raw response text for diagnosis.
type ProtocolError struct {
	// Body contains the raw, undecodable response body
	Body string
	// Err contains the underlying decode error if available
	Err error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: non-JSON response %q: %v", e.Body, e.Err)
	}
	return fmt.Sprintf("protocol error: non-JSON response %q", e.Body)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// RequestError indicates an API request failed, either at the HTTP level
// (non-2xx status with a structured JSON error body) or before a response
// was received (network failure, request construction).
type RequestError struct {
	// Endpoint is the API endpoint that was being accessed
	Endpoint string
	// StatusCode is the HTTP status code, if a response was received
	StatusCode int
	// Message contains the service-provided error message, if any
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Endpoint != "" && e.StatusCode > 0 {
		return fmt.Sprintf("request error during %s (status %d): %s", e.Endpoint, e.StatusCode, msg)
	}
	if e.Endpoint != "" {
		return fmt.Sprintf("request error during %s: %s", e.Endpoint, msg)
	}
	return fmt.Sprintf("request error: %s", msg)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
