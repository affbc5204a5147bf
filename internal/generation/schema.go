package generation

import "github.com/abhisek/pathwise/internal/llm"

// RoadmapSchema is the structural contract for a roadmap payload. The
// phase count is checked against the request separately.
var RoadmapSchema = &llm.Schema{
	Name:        "learning-roadmap",
	Description: "A week-by-week learning roadmap",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Roadmap title",
			},
			"phases": map[string]any{
				"type":        "array",
				"description": "One phase per week, in order",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"week": map[string]any{
							"type":    "integer",
							"minimum": 1,
						},
						"title": map[string]any{
							"type": "string",
						},
						"topics": map[string]any{
							"type":        "array",
							"description": "4-5 specific, actionable topics",
							"items":       map[string]any{"type": "string"},
						},
					},
					"required": []any{"week", "title", "topics"},
				},
			},
		},
		"required": []any{"phases"},
	},
}

// QuizSchema is the structural contract for a quiz payload. The question
// count and answer index range are checked separately.
var QuizSchema = &llm.Schema{
	Name:        "multiple-choice-quiz",
	Description: "A list of multiple-choice questions",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type": "string",
				},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 4,
					"maxItems": 4,
				},
				"correctAnswer": map[string]any{
					"type":        "integer",
					"description": "Zero-based index of the correct option",
					"minimum":     0,
				},
				"explanation": map[string]any{
					"type": "string",
				},
			},
			"required": []any{"question", "options", "correctAnswer", "explanation"},
		},
	},
}

// SchemaFor returns the payload schema for kind.
func SchemaFor(kind ContentKind) *llm.Schema {
	if kind == KindQuiz {
		return QuizSchema
	}
	return RoadmapSchema
}
