package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/generation"
	"github.com/abhisek/pathwise/internal/ui/render"
)

var quizCmd = &cobra.Command{
	Use:     "quiz",
	Short:   "Generate a multiple-choice quiz",
	Example: `  pathwise quiz --topic "SQL joins" --difficulty intermediate --count 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, difficulty, err := parseContentFlags(cmd)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")
		asJSON, _ := cmd.Flags().GetBool("json")
		answers, _ := cmd.Flags().GetBool("answers")

		if _, err := generation.NewQuizRequest(topic, difficulty, count); err != nil {
			return err
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		quiz, err := rt.pipeline.GenerateQuiz(cmd.Context(), topic, difficulty, count)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), asJSON, quiz, func(w io.Writer) error {
			return render.Quiz(w, quiz, answers)
		})
	},
}

func init() {
	addContentFlags(quizCmd)
	quizCmd.Flags().IntP("count", "n", 0, "Number of questions")
	quizCmd.Flags().Bool("answers", false, "Highlight correct answers and show explanations")
	_ = quizCmd.MarkFlagRequired("count")
}
