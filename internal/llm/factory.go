package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with logging.
// Retries are not applied here; the generation controller owns that policy.
// eventRepo may be nil, in which case calls are logged but not recorded.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "ollama":
		base, err = NewOllamaProvider(cfg.Ollama)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, cfg.Provider, logger, eventRepo), nil
}
