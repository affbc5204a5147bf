package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrProviderUnavailable indicates the provider is overloaded or
// temporarily unavailable (HTTP 503, Anthropic 529). It is the only
// transient failure class: waiting and trying again is expected to help.
type ErrProviderUnavailable struct {
	Status int
	Err    error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrProviderFailed is a non-retryable provider failure: bad credentials,
// malformed request, unknown model, network errors, unexpected statuses.
type ErrProviderFailed struct {
	Status int
	Err    error
}

func (e *ErrProviderFailed) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("LLM provider request failed (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("LLM provider request failed: %v", e.Err)
}

func (e *ErrProviderFailed) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit or quota
// error (429). Quota exhaustion does not clear within a backoff window, so
// it is classified as fatal.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider answered but the answer was
// unusable (no text, no choices) or did not match a requested schema.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content string
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// FailureKind classifies a provider error for retry decisions.
type FailureKind int

const (
	// FailureFatal means retrying the same request is assumed futile.
	FailureFatal FailureKind = iota
	// FailureTransient means the provider is temporarily overloaded.
	FailureTransient
)

func (k FailureKind) String() string {
	if k == FailureTransient {
		return "transient"
	}
	return "fatal"
}

// Classify reports whether err is a transient provider failure. Context
// cancellation and every error type other than ErrProviderUnavailable are
// fatal.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureFatal
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FailureFatal
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return FailureTransient
	}
	return FailureFatal
}

// IsTransient is shorthand for Classify(err) == FailureTransient.
func IsTransient(err error) bool {
	return Classify(err) == FailureTransient
}

// statusOverloaded is Anthropic's non-standard "overloaded_error" status.
const statusOverloaded = 529

// mapStatusError maps an HTTP status from a vendor SDK error onto the
// typed error taxonomy.
func mapStatusError(status int, retryAfter time.Duration, err error) error {
	switch status {
	case http.StatusServiceUnavailable, statusOverloaded:
		return &ErrProviderUnavailable{Status: status, Err: err}
	case http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter, Err: err}
	default:
		return &ErrProviderFailed{Status: status, Err: err}
	}
}
