package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// CompletionProvider sends one prompt to a language model and returns the raw completion
// text. Implementations always ask for a JSON object.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// ProviderError is a failed provider call. Retryable marks rate limits, server errors and
// transport failures.
type ProviderError struct {
	Provider   string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Temporary lets callers outside this package detect retryable failures without
// importing it.
func (e *ProviderError) Temporary() bool {
	return e.Retryable
}

// IsRetryable reports whether err wraps a ProviderError worth trying again.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

func newStatusError(provider string, status int, err error) error {
	return &ProviderError{Provider: provider, StatusCode: status, Retryable: isRetryableStatus(status), Err: err}
}

// newTransportError classifies an error raised before any status was received.
// Cancellation and deadline expiry are final.
func newTransportError(provider string, err error) error {
	retryable := !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	if retryable {
		retryable = isRetryableMessage(err.Error())
	}
	return &ProviderError{Provider: provider, Retryable: retryable, Err: err}
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func isRetryableMessage(msg string) bool {
	if strings.Contains(msg, "context canceled") ||
		strings.Contains(msg, "context deadline exceeded") {
		return false
	}
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "temporary failure") ||
		strings.Contains(msg, "EOF")
}
