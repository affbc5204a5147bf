package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/pathwise/internal/llm"
)

func unavailable() llm.MockResponse {
	return llm.MockResponse{Err: &llm.ErrProviderUnavailable{Status: 503}}
}

// newTestController returns a controller whose waits are recorded instead
// of slept.
func newTestController(mock *llm.MockProvider, policy Policy) (*Controller, *[]time.Duration) {
	var waits []time.Duration
	c := NewController(mock, policy, zap.NewNop())
	c.wait = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return c, &waits
}

func testPolicy() Policy {
	return Policy{
		PrimaryModel:  "primary",
		FallbackModel: "fallback",
		MaxRetries:    5,
		Backoff:       LinearBackoff(time.Second),
	}
}

func TestController_FirstAttemptSuccess(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "ok"})
	c, waits := newTestController(mock, testPolicy())

	res, err := c.Run(context.Background(), llm.UserPrompt("", "p"))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.Equal(t, "primary", res.Model)
	assert.Equal(t, 1, res.Attempts)
	assert.False(t, res.UsedFallback)
	assert.Empty(t, *waits)
	assert.Equal(t, []string{"primary"}, mock.Models())
}

func TestController_RetryExhaustionThenFallbackFails(t *testing.T) {
	mock := llm.NewMockProvider()
	for i := 0; i < 7; i++ {
		mock.AddResponse(unavailable())
	}
	c, waits := newTestController(mock, testPolicy())

	res, err := c.Run(context.Background(), llm.UserPrompt("", "p"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.True(t, llm.IsTransient(err))

	// Initial attempt + 5 retries on the primary, then exactly one fallback.
	assert.Equal(t, 7, mock.CallCount())
	assert.Equal(t, []string{"primary", "primary", "primary", "primary", "primary", "primary", "fallback"}, mock.Models())
	assert.Equal(t, 7, res.Attempts)
	assert.True(t, res.UsedFallback)
	assert.Equal(t, "fallback", res.Model)

	assert.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second, 5 * time.Second,
	}, *waits)
	for i := 1; i < len(*waits); i++ {
		assert.Greater(t, (*waits)[i], (*waits)[i-1])
	}
}

func TestController_FallbackSucceeds(t *testing.T) {
	mock := llm.NewMockProvider()
	for i := 0; i < 6; i++ {
		mock.AddResponse(unavailable())
	}
	mock.AddResponse(llm.MockResponse{Text: "from fallback"})
	c, _ := newTestController(mock, testPolicy())

	res, err := c.Run(context.Background(), llm.UserPrompt("", "p"))
	require.NoError(t, err)
	assert.Equal(t, "from fallback", res.Text)
	assert.Equal(t, "fallback", res.Model)
	assert.True(t, res.UsedFallback)
	assert.Equal(t, 7, res.Attempts)
}

func TestController_TransientThenSuccess(t *testing.T) {
	mock := llm.NewMockProvider(unavailable(), unavailable(), llm.MockResponse{Text: "third time"})
	c, waits := newTestController(mock, testPolicy())

	res, err := c.Run(context.Background(), llm.UserPrompt("", "p"))
	require.NoError(t, err)
	assert.Equal(t, "third time", res.Text)
	assert.Equal(t, 3, res.Attempts)
	assert.False(t, res.UsedFallback)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *waits)
}

func TestController_FatalShortCircuits(t *testing.T) {
	fatal := []error{
		&llm.ErrProviderFailed{Status: 401, Err: errors.New("bad key")},
		&llm.ErrRateLimit{Err: errors.New("quota")},
		&llm.ErrInvalidResponse{Err: errors.New("empty")},
		&llm.ErrMaxTokensExceeded{},
	}
	for _, ferr := range fatal {
		t.Run(ferr.Error(), func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Err: ferr}, llm.MockResponse{Text: "never"})
			c, waits := newTestController(mock, testPolicy())

			res, err := c.Run(context.Background(), llm.UserPrompt("", "p"))
			require.Error(t, err)
			assert.ErrorIs(t, err, ferr)
			assert.Equal(t, 1, mock.CallCount())
			assert.Equal(t, 1, res.Attempts)
			assert.False(t, res.UsedFallback)
			assert.Empty(t, *waits)
		})
	}
}

func TestController_FatalAfterTransient(t *testing.T) {
	ferr := &llm.ErrProviderFailed{Status: 400}
	mock := llm.NewMockProvider(unavailable(), llm.MockResponse{Err: ferr})
	c, _ := newTestController(mock, testPolicy())

	_, err := c.Run(context.Background(), llm.UserPrompt("", "p"))
	assert.ErrorIs(t, err, ferr)
	assert.Equal(t, 2, mock.CallCount())
}

func TestController_FallbackFatalIsNotRetried(t *testing.T) {
	mock := llm.NewMockProvider()
	for i := 0; i < 6; i++ {
		mock.AddResponse(unavailable())
	}
	ferr := &llm.ErrProviderFailed{Status: 404, Err: errors.New("model not found")}
	mock.AddResponse(llm.MockResponse{Err: ferr})
	mock.AddResponse(llm.MockResponse{Text: "never"})
	c, _ := newTestController(mock, testPolicy())

	_, err := c.Run(context.Background(), llm.UserPrompt("", "p"))
	assert.ErrorIs(t, err, ferr)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 7, mock.CallCount())
}

func TestController_NoFallbackConfigured(t *testing.T) {
	policy := testPolicy()
	policy.FallbackModel = ""
	policy.MaxRetries = 2

	mock := llm.NewMockProvider(unavailable(), unavailable(), unavailable(), llm.MockResponse{Text: "never"})
	c, waits := newTestController(mock, policy)

	res, err := c.Run(context.Background(), llm.UserPrompt("", "p"))
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 3, mock.CallCount())
	assert.False(t, res.UsedFallback)
	assert.Len(t, *waits, 2)
}

func TestController_ZeroRetriesGoesStraightToFallback(t *testing.T) {
	policy := testPolicy()
	policy.MaxRetries = 0

	mock := llm.NewMockProvider(unavailable(), llm.MockResponse{Text: "fb"})
	c, waits := newTestController(mock, policy)

	res, err := c.Run(context.Background(), llm.UserPrompt("", "p"))
	require.NoError(t, err)
	assert.Equal(t, "fb", res.Text)
	assert.Equal(t, []string{"primary", "fallback"}, mock.Models())
	assert.Empty(t, *waits)
}

func TestController_CancelDuringBackoff(t *testing.T) {
	mock := llm.NewMockProvider(unavailable(), llm.MockResponse{Text: "never"})
	c := NewController(mock, testPolicy(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	c.wait = func(waitCtx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(waitCtx, time.Hour)
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.Run(ctx, llm.UserPrompt("", "p"))
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not stop after cancellation")
	}
	assert.Equal(t, 1, mock.CallCount())
}

func TestController_CanceledBeforeStart(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "never"})
	c, _ := newTestController(mock, testPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Run(ctx, llm.UserPrompt("", "p"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mock.CallCount())
}

func TestController_PreservesCallFields(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "ok"})
	c, _ := newTestController(mock, testPolicy())

	call := llm.UserPrompt("ignored", "the prompt")
	call.MaxTokens = 321
	call.Schema = QuizSchema

	_, err := c.Run(context.Background(), call)
	require.NoError(t, err)
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "primary", mock.Calls[0].Model)
	assert.Equal(t, 321, mock.Calls[0].MaxTokens)
	assert.Same(t, QuizSchema, mock.Calls[0].Schema)
	assert.Equal(t, "the prompt", mock.Calls[0].Messages[0].Content)
}

func TestController_LogsEscalation(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mock := llm.NewMockProvider(unavailable(), llm.MockResponse{Text: "fb"})
	policy := testPolicy()
	policy.MaxRetries = 0
	c := NewController(mock, policy, zap.New(core))

	ctx := llm.WithRequestID(context.Background(), "req-42")
	_, err := c.Run(ctx, llm.UserPrompt("", "p"))
	require.NoError(t, err)

	entries := logs.FilterMessage("primary model exhausted, falling back").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "fallback", entries[0].ContextMap()["fallback"])
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
