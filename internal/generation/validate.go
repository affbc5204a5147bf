package generation

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/abhisek/pathwise/internal/llm"
)

type roadmapPayload struct {
	Title  string         `json:"title"`
	Phases []RoadmapPhase `json:"phases"`
}

// ValidateRoadmap checks raw against RoadmapSchema and req, then fills the
// fields the model is not trusted to echo: topic, difficulty, duration and
// Completed=false on every phase.
func ValidateRoadmap(raw json.RawMessage, req Request) (*Roadmap, error) {
	if err := llm.ValidateJSON(RoadmapSchema, raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	var p roadmapPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if len(p.Phases) != req.Quantity {
		return nil, malformed("roadmap has %d phases, want %d", len(p.Phases), req.Quantity)
	}

	for i := range p.Phases {
		p.Phases[i].Completed = false
	}

	return &Roadmap{
		Title:      p.Title,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Duration:   req.Quantity,
		Phases:     p.Phases,
	}, nil
}

// quizQuestionPayload reads correctAnswer as a JSON number so integral
// floats such as 2.0 are accepted like the schema accepts them.
type quizQuestionPayload struct {
	Question      string      `json:"question"`
	Options       []string    `json:"options"`
	CorrectAnswer json.Number `json:"correctAnswer"`
	Explanation   string      `json:"explanation"`
}

// ValidateQuiz checks raw against QuizSchema and req. A valid quiz is
// returned as parsed.
func ValidateQuiz(raw json.RawMessage, req Request) (Quiz, error) {
	if err := llm.ValidateJSON(QuizSchema, raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	var payload []quizQuestionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if len(payload) != req.Quantity {
		return nil, malformed("quiz has %d questions, want %d", len(payload), req.Quantity)
	}

	q := make(Quiz, len(payload))
	for i, p := range payload {
		answer, err := answerIndex(p.CorrectAnswer)
		if err != nil {
			return nil, malformed("question %d: %v", i+1, err)
		}
		if answer < 0 || answer >= len(p.Options) {
			return nil, malformed("question %d: correctAnswer %d outside [0, %d]",
				i+1, answer, len(p.Options)-1)
		}
		q[i] = QuizQuestion{
			Question:      p.Question,
			Options:       p.Options,
			CorrectAnswer: answer,
			Explanation:   p.Explanation,
		}
	}

	return q, nil
}

func answerIndex(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("correctAnswer %s is not an integer", n)
	}
	return int(f), nil
}
