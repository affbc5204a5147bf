package generation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContentKind identifies what a request asks the model to produce.
type ContentKind string

const (
	KindRoadmap ContentKind = "roadmap"
	KindQuiz    ContentKind = "quiz"
)

// Difficulty is the learner level a roadmap or quiz is written for.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// ParseDifficulty accepts a difficulty label in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Beginner, Intermediate, Advanced:
		return d, nil
	}
	return "", fmt.Errorf("%w: unknown difficulty %q (want beginner, intermediate or advanced)", ErrInvalidRequest, s)
}

// Request is a single generation request. Quantity is the number of weeks
// for a roadmap and the number of questions for a quiz.
type Request struct {
	Kind       ContentKind `validate:"required,oneof=roadmap quiz"`
	Topic      string      `validate:"required"`
	Difficulty Difficulty  `validate:"required,oneof=beginner intermediate advanced"`
	Quantity   int         `validate:"gt=0"`
}

var requestValidator = validator.New()

// Validate reports an error wrapping ErrInvalidRequest when a field is
// missing or out of range.
func (r Request) Validate() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if err := requestValidator.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// NewRoadmapRequest builds and validates a roadmap request.
func NewRoadmapRequest(topic string, difficulty Difficulty, weeks int) (Request, error) {
	r := Request{Kind: KindRoadmap, Topic: strings.TrimSpace(topic), Difficulty: difficulty, Quantity: weeks}
	return r, r.Validate()
}

// NewQuizRequest builds and validates a quiz request.
func NewQuizRequest(topic string, difficulty Difficulty, count int) (Request, error) {
	r := Request{Kind: KindQuiz, Topic: strings.TrimSpace(topic), Difficulty: difficulty, Quantity: count}
	return r, r.Validate()
}

// RoadmapPhase is one week of a roadmap.
type RoadmapPhase struct {
	Week      int      `json:"week"`
	Title     string   `json:"title"`
	Topics    []string `json:"topics"`
	Completed bool     `json:"completed"`
}

// Roadmap is a validated learning roadmap. len(Phases) == Duration.
type Roadmap struct {
	Title      string         `json:"title"`
	Topic      string         `json:"topic"`
	Difficulty Difficulty     `json:"difficulty"`
	Duration   int            `json:"duration"`
	Phases     []RoadmapPhase `json:"phases"`
}

// QuizQuestion is a multiple-choice question with exactly four options.
// CorrectAnswer is a zero-based index into Options.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Quiz is a validated, ordered list of questions.
type Quiz []QuizQuestion

// Bundle pairs a roadmap and a quiz generated for the same topic.
type Bundle struct {
	Roadmap *Roadmap `json:"roadmap"`
	Quiz    Quiz     `json:"quiz"`
}
