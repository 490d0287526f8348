package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is the base type for all provider errors.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.Provider != "" {
		return e.Provider + ": " + e.Message
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Cause }

// AuthError indicates the credential was rejected (401/403).
type AuthError struct{ APIError }

// RateLimitError indicates the provider throttled the request (429).
// RetryAfter holds the provider's suggested wait in seconds when present.
type RateLimitError struct {
	APIError
	RetryAfter *float64
}

// ServerError indicates a provider-side failure (5xx).
type ServerError struct{ APIError }

// ConnectivityError indicates the request never produced an HTTP response
// (DNS failure, refused connection, timeout).
type ConnectivityError struct{ APIError }

// EmptyResponseError indicates a 2xx response that carried no usable
// generated text.
type EmptyResponseError struct{ APIError }

// ConfigurationError indicates an invalid or incomplete Config.
type ConfigurationError struct{ APIError }

func connectivityError(name string, cause error) error {
	return &ConnectivityError{APIError{
		Provider: name,
		Message:  fmt.Sprintf("network request failed: %v", cause),
		Cause:    cause,
	}}
}

func emptyResponseError(name string) error {
	return &EmptyResponseError{APIError{
		Provider: name,
		Message:  "provider returned a response with no generated text",
	}}
}

// errorFromResponse maps a non-2xx HTTP response onto the error taxonomy,
// pulling a human-readable message out of the provider's error body when
// one is present.
func errorFromResponse(resp *http.Response, name string) error {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return connectivityError(name, readErr)
	}

	message := extractErrorMessage(body)
	if message == "" {
		message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	base := APIError{Provider: name, StatusCode: resp.StatusCode, Message: message}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		base.Message = "invalid or missing credential: " + message
		return &AuthError{base}
	case resp.StatusCode == http.StatusTooManyRequests:
		base.Message = "rate limited: " + message
		return &RateLimitError{
			APIError:   base,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode >= 500:
		base.Message = "provider server error: " + message
		return &ServerError{base}
	default:
		return &base
	}
}

// extractErrorMessage digs a message out of the error body shapes the
// providers use: {"error": {"message": ...}}, {"error": "..."} and a bare
// {"message": ...}.
func extractErrorMessage(body []byte) string {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	if errObj, ok := raw["error"].(map[string]interface{}); ok {
		if msg, ok := errObj["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if msg, ok := raw["error"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := raw["message"].(string); ok && msg != "" {
		return msg
	}
	return ""
}
