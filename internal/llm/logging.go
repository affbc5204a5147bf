package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/store"
)

// LoggingProvider is a decorator that logs every LLM call and, when an
// EventRepo is configured, records it as an event.
type LoggingProvider struct {
	inner     Provider
	name      string
	logger    *zap.Logger
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with call logging. logger and repo may be nil.
func WithLogging(p Provider, name string, logger *zap.Logger, repo store.EventRepo) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, name: name, logger: logger, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	model := req.Model
	if model == "" {
		model = l.inner.ModelID()
	}

	data := store.LLMRequestEventData{
		RequestID:   RequestIDFrom(ctx),
		Provider:    l.name,
		Model:       model,
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		Outcome:     "ok",
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = resp.Text
	}

	logFields := []zap.Field{
		zap.String("request_id", data.RequestID),
		zap.String("provider", l.name),
		zap.String("model", data.Model),
		zap.String("purpose", data.Purpose),
		zap.Duration("latency", latency),
	}

	if err != nil {
		data.Outcome = Classify(err).String()
		data.ErrorMessage = err.Error()
		l.logger.Warn("llm call failed",
			append(logFields, zap.String("outcome", data.Outcome), zap.Error(err))...)
	} else {
		l.logger.Debug("llm call succeeded",
			append(logFields,
				zap.Int("input_tokens", data.InputTokens),
				zap.Int("output_tokens", data.OutputTokens))...)
	}

	if l.eventRepo != nil {
		// A failed write never fails the call. The row is written even when
		// ctx ended the call.
		if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.logger.Warn("failed to record LLM request event", zap.Error(logErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
