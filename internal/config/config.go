package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/abhisek/pathwise/internal/generation"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logging"
)

// EnvPrefix is prepended to every environment override, e.g.
// PATHWISE_GENERATION_MAX_RETRIES.
const EnvPrefix = "PATHWISE"

// Config is the process-wide configuration, resolved once at startup.
type Config struct {
	LLM        llm.Config        `mapstructure:"llm"`
	Generation generation.Config `mapstructure:"generation"`
	Log        logging.Config    `mapstructure:"log"`
	Store      StoreConfig       `mapstructure:"store"`
}

// StoreConfig controls the local LLM event log.
type StoreConfig struct {
	// Path is the SQLite file. Empty resolves PATHWISE_DB, then the XDG
	// data directory.
	Path string `mapstructure:"path"`

	// RecordEvents stores every provider call in the event log.
	RecordEvents bool `mapstructure:"record_events"`
}

// fallbackKey is set explicitly, possibly to "" to disable the fallback
// tier, or derived from the provider.
const fallbackKey = "generation.fallback_model"

// vendorKeys binds API keys to the variable names each vendor documents.
var vendorKeys = map[string]string{
	"llm.gemini.api_key":     "GEMINI_API_KEY",
	"llm.openai.api_key":     "OPENAI_API_KEY",
	"llm.anthropic.api_key":  "ANTHROPIC_API_KEY",
	"llm.openrouter.api_key": "OPENROUTER_API_KEY",
}

// Load resolves configuration from defaults, an optional YAML file and the
// environment, in increasing precedence. With an empty path it looks for
// pathwise.yaml in the working directory and the user config directory; a
// missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default: an unset fallback follows the selected provider.
	if err := v.BindEnv(fallbackKey); err != nil {
		return nil, fmt.Errorf("bind %s: %w", fallbackKey, err)
	}
	for key, env := range vendorKeys {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("pathwise")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pathwise"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if v.IsSet(fallbackKey) {
		cfg.Generation.FallbackModel = v.GetString(fallbackKey)
	} else {
		cfg.Generation.FallbackModel = cfg.LLM.FallbackModel()
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()
	v.SetDefault("llm.provider", l.Provider)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.ollama.server_url", l.Ollama.ServerURL)
	v.SetDefault("llm.ollama.model", l.Ollama.Model)

	g := generation.DefaultConfig()
	v.SetDefault("generation.primary_model", g.PrimaryModel)
	v.SetDefault("generation.max_retries", g.MaxRetries)
	v.SetDefault("generation.backoff_step", g.BackoffStep)
	v.SetDefault("generation.backoff_table", []string{})
	v.SetDefault("generation.max_tokens", g.MaxTokens)
	v.SetDefault("generation.temperature", g.Temperature)
	v.SetDefault("generation.structured_output", g.StructuredOutput)
	v.SetDefault("generation.timeout", g.Timeout)

	lg := logging.DefaultConfig()
	v.SetDefault("log.level", lg.Level)
	v.SetDefault("log.format", lg.Format)

	v.SetDefault("store.path", "")
	v.SetDefault("store.record_events", true)
}
