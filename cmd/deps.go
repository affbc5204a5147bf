package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/generation"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/store"
)

// runtime holds the dependencies a generation command needs.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	pipeline *generation.Pipeline
}

// loadConfig resolves configuration and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.path from config, then PATHWISE_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

// openStore opens the event log for the llm inspection commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newRuntime wires config, logger, event log, provider and pipeline.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger}

	var eventRepo store.EventRepo
	if cfg.Store.RecordEvents {
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("open database: %w", err)
		}
		rt.store = s
		eventRepo = s.EventRepo()
	}

	provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, logger, eventRepo)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	rt.pipeline, err = generation.New(provider, cfg.Generation, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.logger.Warn("failed to close store", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
}

// printResult writes v as indented JSON or through the styled renderer.
func printResult(w io.Writer, asJSON bool, v any, render func(io.Writer) error) error {
	if !asJSON {
		return render(w)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseContentFlags reads the flags every generation command shares.
func parseContentFlags(cmd *cobra.Command) (string, generation.Difficulty, error) {
	topic, _ := cmd.Flags().GetString("topic")
	raw, _ := cmd.Flags().GetString("difficulty")
	difficulty, err := generation.ParseDifficulty(raw)
	if err != nil {
		return "", "", err
	}
	return topic, difficulty, nil
}

func addContentFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("topic", "t", "", "Subject to generate content for")
	cmd.Flags().StringP("difficulty", "d", "", "beginner, intermediate or advanced")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("difficulty")
}
