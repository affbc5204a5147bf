package generation

import (
	"fmt"
	"time"
)

const (
	DefaultMaxRetries  = 5
	DefaultBackoffStep = time.Second
)

// BackoffFunc returns the wait before retry number attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// LinearBackoff waits attempt*step: 1s, 2s, 3s... for a one-second step.
func LinearBackoff(step time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// TableBackoff waits delays[attempt-1]. Attempts past the end of the table
// reuse the last entry.
func TableBackoff(delays ...time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if len(delays) == 0 {
			return 0
		}
		i := attempt - 1
		if i < 0 {
			i = 0
		}
		if i >= len(delays) {
			i = len(delays) - 1
		}
		return delays[i]
	}
}

// Policy is the retry and fallback policy of the Controller.
type Policy struct {
	// PrimaryModel is tried first, up to MaxRetries+1 times. Empty sends
	// requests without a model so the provider uses its own.
	PrimaryModel string

	// FallbackModel gets exactly one attempt after the primary is
	// exhausted. Empty disables the fallback tier.
	FallbackModel string

	// MaxRetries is the number of retries after the first primary attempt.
	MaxRetries int

	Backoff BackoffFunc
}

// DefaultPolicy: five retries at 1s..5s on the provider's configured model.
// No fallback tier.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:    DefaultMaxRetries,
		Backoff:       LinearBackoff(DefaultBackoffStep),
	}
}

// Validate checks that the retry budget is non-negative and that backoff
// delays strictly increase across the whole budget.
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0, got %d", p.MaxRetries)
	}
	if p.MaxRetries == 0 {
		return nil
	}
	if p.Backoff == nil {
		return fmt.Errorf("backoff is required when max retries is %d", p.MaxRetries)
	}

	prev := p.Backoff(1)
	if prev < 0 {
		return fmt.Errorf("backoff for retry 1 is negative (%s)", prev)
	}
	for i := 2; i <= p.MaxRetries; i++ {
		d := p.Backoff(i)
		if d <= prev {
			return fmt.Errorf("backoff must strictly increase: retry %d waits %s after %s", i, d, prev)
		}
		prev = d
	}
	return nil
}
