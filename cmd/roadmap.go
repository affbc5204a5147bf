package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/generation"
	"github.com/abhisek/pathwise/internal/ui/render"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Generate a week-by-week learning roadmap",
	Example: `  pathwise roadmap --topic "Rust" --difficulty beginner --weeks 6
  pathwise roadmap -t Kubernetes -d advanced -w 4 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, difficulty, err := parseContentFlags(cmd)
		if err != nil {
			return err
		}
		weeks, _ := cmd.Flags().GetInt("weeks")
		asJSON, _ := cmd.Flags().GetBool("json")

		// Reject bad input before any provider is configured.
		if _, err := generation.NewRoadmapRequest(topic, difficulty, weeks); err != nil {
			return err
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		roadmap, err := rt.pipeline.GenerateRoadmap(cmd.Context(), topic, difficulty, weeks)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), asJSON, roadmap, func(w io.Writer) error {
			return render.Roadmap(w, roadmap)
		})
	},
}

func init() {
	addContentFlags(roadmapCmd)
	roadmapCmd.Flags().IntP("weeks", "w", 0, "Number of weekly phases")
	_ = roadmapCmd.MarkFlagRequired("weeks")
}
