package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/generation"
	"github.com/abhisek/pathwise/internal/ui/render"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Generate a roadmap and a quiz for the same topic concurrently",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, difficulty, err := parseContentFlags(cmd)
		if err != nil {
			return err
		}
		weeks, _ := cmd.Flags().GetInt("weeks")
		count, _ := cmd.Flags().GetInt("count")
		asJSON, _ := cmd.Flags().GetBool("json")

		if _, err := generation.NewRoadmapRequest(topic, difficulty, weeks); err != nil {
			return err
		}
		if _, err := generation.NewQuizRequest(topic, difficulty, count); err != nil {
			return err
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		bundle, err := rt.pipeline.GenerateBundle(cmd.Context(), topic, difficulty, weeks, count)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), asJSON, bundle, func(w io.Writer) error {
			return render.Bundle(w, *bundle)
		})
	},
}

func init() {
	addContentFlags(bundleCmd)
	bundleCmd.Flags().IntP("weeks", "w", 4, "Number of weekly phases")
	bundleCmd.Flags().IntP("count", "n", 5, "Number of questions")
}
