package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/pathwise/internal/llm"
)

// Config controls the generation pipeline.
type Config struct {
	// PrimaryModel is the model tried first. Empty uses the provider's
	// configured model.
	PrimaryModel string `mapstructure:"primary_model"`

	// FallbackModel gets one attempt once the primary is exhausted.
	// Empty disables the fallback tier. It must be a model the selected
	// provider serves.
	FallbackModel string `mapstructure:"fallback_model"`

	MaxRetries int `mapstructure:"max_retries" validate:"gte=0,lte=10"`

	// BackoffStep is the linear backoff unit: retry n waits n*BackoffStep.
	BackoffStep time.Duration `mapstructure:"backoff_step" validate:"gte=0"`

	// BackoffTable, when set, replaces the linear curve. It needs at
	// least MaxRetries strictly increasing entries.
	BackoffTable []time.Duration `mapstructure:"backoff_table"`

	// MaxTokens is the token budget for each response. 0 leaves it to
	// the provider.
	MaxTokens int `mapstructure:"max_tokens" validate:"gte=0"`

	// Temperature controls LLM output randomness (0.0-2.0).
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`

	// StructuredOutput sends the payload schema with each request so
	// providers that support it constrain output to JSON.
	StructuredOutput bool `mapstructure:"structured_output"`

	// Timeout bounds a whole generation, retries and fallback included.
	// 0 means no limit beyond the caller's context.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// DefaultConfig returns the recommended pipeline settings.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  DefaultMaxRetries,
		BackoffStep: DefaultBackoffStep,
		MaxTokens:   8192,
		Temperature: 0.7,
		Timeout:     3 * time.Minute,
	}
}

// Policy derives the controller policy from the config.
func (c Config) Policy() Policy {
	p := Policy{
		PrimaryModel:  c.PrimaryModel,
		FallbackModel: c.FallbackModel,
		MaxRetries:    c.MaxRetries,
		Backoff:       LinearBackoff(c.BackoffStep),
	}
	if len(c.BackoffTable) > 0 {
		p.Backoff = TableBackoff(c.BackoffTable...)
	}
	return p
}

// Pipeline turns generation requests into validated roadmaps and quizzes.
// It is safe for concurrent use.
type Pipeline struct {
	controller *Controller
	cfg        Config
	logger     *zap.Logger
}

// New creates a Pipeline over provider. The provider must not retry on
// its own.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := cfg.Policy()
	if policy.PrimaryModel == "" {
		policy.PrimaryModel = provider.ModelID()
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("generation policy: %w", err)
	}
	return &Pipeline{
		controller: NewController(provider, policy, logger),
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// GenerateRoadmap produces a roadmap with exactly weeks phases.
func (p *Pipeline) GenerateRoadmap(ctx context.Context, topic string, difficulty Difficulty, weeks int) (*Roadmap, error) {
	req, err := NewRoadmapRequest(topic, difficulty, weeks)
	if err != nil {
		return nil, err
	}

	var roadmap *Roadmap
	err = p.generate(ctx, req, func(raw json.RawMessage) error {
		var verr error
		roadmap, verr = ValidateRoadmap(raw, req)
		return verr
	})
	if err != nil {
		return nil, err
	}
	return roadmap, nil
}

// GenerateQuiz produces a quiz with exactly count questions.
func (p *Pipeline) GenerateQuiz(ctx context.Context, topic string, difficulty Difficulty, count int) (Quiz, error) {
	req, err := NewQuizRequest(topic, difficulty, count)
	if err != nil {
		return nil, err
	}

	var quiz Quiz
	err = p.generate(ctx, req, func(raw json.RawMessage) error {
		var verr error
		quiz, verr = ValidateQuiz(raw, req)
		return verr
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// GenerateBundle runs a roadmap and a quiz generation concurrently. The
// first failure cancels the other.
func (p *Pipeline) GenerateBundle(ctx context.Context, topic string, difficulty Difficulty, weeks, count int) (*Bundle, error) {
	var b Bundle
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := p.GenerateRoadmap(gctx, topic, difficulty, weeks)
		b.Roadmap = r
		return err
	})
	g.Go(func() error {
		q, err := p.GenerateQuiz(gctx, topic, difficulty, count)
		b.Quiz = q
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &b, nil
}

// generate runs one request through prompt, controller, extractor and
// validate. Every failure comes back as a *GenerationError.
func (p *Pipeline) generate(ctx context.Context, req Request, validate func(json.RawMessage) error) error {
	requestID := uuid.NewString()
	log := p.logger.With(
		zap.String("request_id", requestID),
		zap.String("kind", string(req.Kind)),
		zap.String("topic", req.Topic),
		zap.String("difficulty", string(req.Difficulty)),
		zap.Int("quantity", req.Quantity),
	)

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithRequestID(llm.WithPurpose(ctx, string(req.Kind)), requestID)

	call := llm.UserPrompt("", BuildPrompt(req))
	call.MaxTokens = p.cfg.MaxTokens
	call.Temperature = p.cfg.Temperature
	if p.cfg.StructuredOutput {
		call.Schema = SchemaFor(req.Kind)
	}

	start := time.Now()
	res, err := p.controller.Run(ctx, call)
	fail := func(stage Stage, err error) error {
		gerr := &GenerationError{
			Kind:      req.Kind,
			Stage:     stage,
			RequestID: requestID,
			Model:     res.Model,
			Attempts:  res.Attempts,
			Err:       err,
		}
		log.Error("generation failed",
			zap.String("stage", string(stage)),
			zap.String("model", res.Model),
			zap.Int("attempts", res.Attempts),
			zap.Error(err))
		return gerr
	}
	if err != nil {
		return fail(StageProvider, err)
	}

	raw, err := Extract(res.Text, ShapeFor(req.Kind))
	if err != nil {
		return fail(StageExtract, err)
	}
	if err := validate(raw); err != nil {
		return fail(StageValidate, err)
	}

	log.Info("generation succeeded",
		zap.String("model", res.Model),
		zap.Int("attempts", res.Attempts),
		zap.Bool("fallback", res.UsedFallback),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
