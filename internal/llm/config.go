package llm

import (
	"fmt"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "ollama", "mock"
	Provider string `mapstructure:"provider" validate:"required,oneof=gemini openai anthropic openrouter ollama mock"`

	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Ollama     OllamaConfig     `mapstructure:"ollama"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`    // Default: "gemini-2.5-flash"
	BaseURL string `mapstructure:"base_url"` // Optional. Override for proxies and tests.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `mapstructure:"base_url"` // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"` // Default: "claude-haiku"
	BaseURL string `mapstructure:"base_url"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`    // Default: "google/gemini-2.5-flash"
	BaseURL string `mapstructure:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// OllamaConfig holds settings for a local Ollama server.
type OllamaConfig struct {
	ServerURL string `mapstructure:"server_url"` // Default: "http://localhost:11434"
	Model     string `mapstructure:"model"`      // Default: "llama3.1"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Ollama: OllamaConfig{
			ServerURL: defaultOllamaServerURL,
			Model:     "llama3.1",
		},
	}
}

// fallbackModels is the lighter model each vendor escalates to when its
// primary model stays overloaded.
var fallbackModels = map[string]string{
	"gemini":     "gemini-2.5-flash-lite",
	"openai":     "gpt-4.1-mini",
	"anthropic":  "claude-haiku",
	"openrouter": "google/gemini-2.5-flash-lite",
	"mock":       "mock-lite",
}

// FallbackModel returns the default fallback model for the selected
// provider. It is empty for ollama, which serves one local model, and when
// the vendor's fallback is the configured model itself.
func (c Config) FallbackModel() string {
	fallback, ok := fallbackModels[c.Provider]
	if !ok {
		return ""
	}

	var configured string
	var models map[string]string
	switch c.Provider {
	case "gemini":
		configured, models = c.Gemini.Model, geminiModels
	case "openai":
		configured, models = c.OpenAI.Model, openaiModels
	case "anthropic":
		configured, models = c.Anthropic.Model, anthropicModels
	case "openrouter":
		configured, models = c.OpenRouter.Model, openRouterModels
	}
	if resolveModel(configured, "", models) == resolveModel(fallback, "", models) {
		return ""
	}
	return fallback
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "ollama":
		if c.Ollama.Model == "" {
			return fmt.Errorf("an ollama model is required for the ollama provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
