package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies upstream request failures.
type ErrorKind string

// Upstream failure kinds. All three surface to the user as "request failed".
const (
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindStatus    ErrorKind = "status"
	ErrorKindPayload   ErrorKind = "payload"
)

// RequestError is returned by every operation that calls the remote API.
type RequestError struct {
	Kind    ErrorKind
	Op      string
	Status  int
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	switch {
	case e.Status != 0 && e.Cause != nil:
		return fmt.Sprintf("%s failed (%s, status %d): %s: %v", e.Op, e.Kind, e.Status, e.Message, e.Cause)
	case e.Status != 0:
		return fmt.Sprintf("%s failed (%s, status %d): %s", e.Op, e.Kind, e.Status, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s failed (%s): %s: %v", e.Op, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed (%s): %s", e.Op, e.Kind, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// NewTransportError wraps a network-level failure.
func NewTransportError(op string, cause error) *RequestError {
	return &RequestError{Kind: ErrorKindTransport, Op: op, Message: "request could not be completed", Cause: cause}
}

// NewStatusError records a non-2xx response.
func NewStatusError(op string, status int, body string) *RequestError {
	msg := "unexpected response status"
	if body != "" {
		msg = body
	}
	return &RequestError{Kind: ErrorKindStatus, Op: op, Status: status, Message: msg}
}

// NewPayloadError records a response body that could not be understood.
func NewPayloadError(op string, message string, cause error) *RequestError {
	return &RequestError{Kind: ErrorKindPayload, Op: op, Message: message, Cause: cause}
}

// Configuration error codes
const (
	ErrCodeInvalidConfig           = "INVALID_CONFIG"
	ErrCodeDefaultModelUnavailable = "DEFAULT_MODEL_UNAVAILABLE"
)

// ConfigError reports a configuration or caller-contract violation.
type ConfigError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ErrInvalidConfig builds an INVALID_CONFIG error for field.
func ErrInvalidConfig(field, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf("Invalid configuration for %s: %s", field, reason),
	}
}

// ErrDefaultModelUnavailable reports a default model missing from the catalog.
func ErrDefaultModelUnavailable(model string, available int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeDefaultModelUnavailable,
		Message: fmt.Sprintf("default model %q is not among the %d available models", model, available),
	}
}

// IsConfigError reports whether err carries a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// UserMessage renders err as the inline notice shown in the sidebar.
func UserMessage(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.Op {
		case OpListModels:
			return fmt.Sprintf("Error getting models from API: %s", reqErr.Error())
		case OpExchangeCode:
			return fmt.Sprintf("Error exchanging code for API key: %s", reqErr.Error())
		}
	}
	return err.Error()
}
