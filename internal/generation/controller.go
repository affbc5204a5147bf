package generation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/llm"
)

type state int

const (
	stateAttempting state = iota
	stateFallback
	stateDone
	stateFailed
)

// Result reports how a Controller run ended. It is filled on failure too.
type Result struct {
	Text         string
	Model        string // model of the last call made
	Attempts     int    // provider calls made, fallback included
	UsedFallback bool
}

// Controller retries transient provider failures with backoff and then
// falls back to a secondary model. It holds no per-call state, so one
// Controller can serve concurrent runs.
type Controller struct {
	provider llm.Provider
	policy   Policy
	logger   *zap.Logger

	// wait suspends the calling goroutine for d or until ctx is done.
	wait func(ctx context.Context, d time.Duration) error
}

// NewController creates a Controller. The policy must already be valid.
func NewController(provider llm.Provider, policy Policy, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		provider: provider,
		policy:   policy,
		logger:   logger,
		wait:     sleepContext,
	}
}

// Run sends call to the provider under the retry and fallback policy.
// call.Model is overwritten on every attempt.
func (c *Controller) Run(ctx context.Context, call llm.Request) (Result, error) {
	log := c.logger.With(zap.String("request_id", llm.RequestIDFrom(ctx)))

	var (
		res     Result
		retries int
		lastErr error
		st      = stateAttempting
	)

	for {
		switch st {
		case stateAttempting:
			if err := ctx.Err(); err != nil {
				return res, err
			}

			res.Model = c.policy.PrimaryModel
			res.Attempts++
			text, err := c.invoke(ctx, res.Model, call)
			if err == nil {
				res.Text = text
				st = stateDone
				continue
			}
			lastErr = err

			if llm.Classify(err) == llm.FailureFatal {
				log.Warn("generation attempt failed with fatal error",
					zap.String("model", res.Model), zap.Int("attempt", res.Attempts), zap.Error(err))
				st = stateFailed
				continue
			}

			if retries == c.policy.MaxRetries {
				st = stateFallback
				continue
			}

			retries++
			delay := c.policy.Backoff(retries)
			log.Info("provider unavailable, backing off",
				zap.String("model", res.Model),
				zap.Int("retry", retries),
				zap.Int("max_retries", c.policy.MaxRetries),
				zap.Duration("delay", delay),
				zap.Error(err))

			if err := c.wait(ctx, delay); err != nil {
				return res, err
			}

		case stateFallback:
			if c.policy.FallbackModel == "" {
				log.Warn("primary model exhausted and no fallback configured",
					zap.String("model", res.Model), zap.Int("attempts", res.Attempts))
				return res, fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
			}
			if err := ctx.Err(); err != nil {
				return res, err
			}

			log.Warn("primary model exhausted, falling back",
				zap.String("primary", res.Model),
				zap.String("fallback", c.policy.FallbackModel),
				zap.Int("attempts", res.Attempts))

			res.Model = c.policy.FallbackModel
			res.Attempts++
			res.UsedFallback = true
			text, err := c.invoke(ctx, res.Model, call)
			if err == nil {
				res.Text = text
				st = stateDone
				continue
			}
			lastErr = err

			// The fallback tier is never retried.
			if llm.IsTransient(err) {
				return res, fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
			}
			st = stateFailed

		case stateDone:
			log.Debug("generation call succeeded",
				zap.String("model", res.Model),
				zap.Int("attempts", res.Attempts),
				zap.Bool("fallback", res.UsedFallback))
			return res, nil

		case stateFailed:
			return res, lastErr
		}
	}
}

// invoke makes exactly one provider call against model.
func (c *Controller) invoke(ctx context.Context, model string, call llm.Request) (string, error) {
	call.Model = model
	resp, err := c.provider.Generate(ctx, call)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// sleepContext waits for d without holding any lock. The timer is released
// as soon as ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
