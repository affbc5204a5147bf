package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/ui/render"
)

var rootCmd = &cobra.Command{
	Use:   "pathwise",
	Short: "Generate learning roadmaps and quizzes with an LLM",
	Long: "Pathwise generates weekly learning roadmaps and multiple-choice quizzes " +
		"for any topic, retrying overloaded models and falling back to a lighter one.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. An interrupt cancels in-flight generation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		render.Error(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default ./pathwise.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log (overrides store.path and PATHWISE_DB)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
