// Package render draws generated roadmaps and quizzes for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/generation"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

var optionLabels = [...]string{"A", "B", "C", "D"}

// Roadmap writes r as a title line followed by one bordered block per
// phase.
func Roadmap(w io.Writer, r *generation.Roadmap) error {
	if r == nil {
		return fmt.Errorf("render roadmap: nil roadmap")
	}

	title := r.Title
	if title == "" {
		title = r.Topic
	}

	blocks := []string{
		theme.Title.Render(title),
		theme.Subtitle.Render(fmt.Sprintf("%s · %d weeks · %s", r.Topic, r.Duration, r.Difficulty)),
	}
	for _, p := range r.Phases {
		blocks = append(blocks, theme.Phase.Render(phaseBody(p)))
	}

	_, err := lipgloss.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return err
}

func phaseBody(p generation.RoadmapPhase) string {
	var b strings.Builder
	b.WriteString(theme.WeekLabel.Render(fmt.Sprintf("Week %d", p.Week)))
	b.WriteString("  ")
	b.WriteString(theme.Body.Render(p.Title))
	for _, t := range p.Topics {
		b.WriteString("\n")
		b.WriteString(theme.Bullet.Render("•"))
		b.WriteString(" ")
		b.WriteString(theme.Body.Render(t))
	}
	return b.String()
}

// Quiz writes the numbered questions with lettered options. With
// showAnswers the correct option is highlighted and the explanation
// follows each question.
func Quiz(w io.Writer, q generation.Quiz, showAnswers bool) error {
	if len(q) == 0 {
		_, err := lipgloss.Fprintln(w, theme.Hint.Render("No questions."))
		return err
	}

	var lines []string
	for i, qq := range q {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, theme.Question.Render(fmt.Sprintf("%d. %s", i+1, qq.Question)))
		for j, opt := range qq.Options {
			label := fmt.Sprintf("%s) %s", optionLabel(j), opt)
			if showAnswers && j == qq.CorrectAnswer {
				lines = append(lines, theme.Correct.Render(label+" ✓"))
				continue
			}
			lines = append(lines, theme.Option.Render(label))
		}
		if showAnswers && qq.Explanation != "" {
			lines = append(lines, theme.Hint.Render(qq.Explanation))
		}
	}

	_, err := lipgloss.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return err
}

// Bundle writes the roadmap then the quiz with answers.
func Bundle(w io.Writer, b generation.Bundle) error {
	if err := Roadmap(w, b.Roadmap); err != nil {
		return err
	}
	if _, err := lipgloss.Fprintln(w, "\n"+theme.Title.Render("Quiz")); err != nil {
		return err
	}
	return Quiz(w, b.Quiz, true)
}

// Error writes a one-line failure message.
func Error(w io.Writer, err error) {
	lipgloss.Fprintln(w, theme.Failure.Render("Error: ")+theme.Body.Render(err.Error()))
}

func optionLabel(i int) string {
	if i >= 0 && i < len(optionLabels) {
		return optionLabels[i]
	}
	return fmt.Sprintf("%d", i+1)
}
