package generation

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the instruction sent to the model for req.
func BuildPrompt(req Request) string {
	switch req.Kind {
	case KindQuiz:
		return buildQuizPrompt(req)
	default:
		return buildRoadmapPrompt(req)
	}
}

func buildRoadmapPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a detailed %d-week learning roadmap for %q at %s level.\n\n",
		req.Quantity, req.Topic, req.Difficulty)

	b.WriteString("Return a JSON object with this exact structure (no markdown, just raw JSON):\n")
	b.WriteString(`{
  "title": "Topic Learning Path",
  "phases": [
    {
      "week": 1,
      "title": "Phase title",
      "topics": ["topic 1", "topic 2", "topic 3", "topic 4"]
    }
  ]
}`)

	b.WriteString("\n\nRequirements:\n")
	fmt.Fprintf(&b, "- Create exactly %d phases (one per week)\n", req.Quantity)
	b.WriteString("- Each phase should have 4-5 specific, actionable topics\n")
	b.WriteString("- Topics should be progressive and build on each other\n")
	fmt.Fprintf(&b, "- For %s level learners\n", req.Difficulty)
	b.WriteString("- Be specific and practical")

	return b.String()
}

func buildQuizPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d multiple-choice quiz questions about %q at %s level.\n\n",
		req.Quantity, req.Topic, req.Difficulty)

	b.WriteString("Return a JSON array with this exact structure (no markdown, just raw JSON):\n")
	b.WriteString(`[
  {
    "question": "Question text here?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": 0,
    "explanation": "Explanation why this answer is correct"
  }
]`)

	b.WriteString("\n\nRequirements:\n")
	fmt.Fprintf(&b, "- Create exactly %d questions\n", req.Quantity)
	b.WriteString("- Each question must have exactly 4 options\n")
	b.WriteString("- correctAnswer is the zero-based index of the correct option (0-3)\n")
	b.WriteString("- Questions should be clear and unambiguous\n")
	b.WriteString("- Include helpful explanations")

	return b.String()
}
