package generation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roadmapReq(t *testing.T, weeks int) Request {
	t.Helper()
	req, err := NewRoadmapRequest("Go", Beginner, weeks)
	require.NoError(t, err)
	return req
}

func quizReq(t *testing.T, count int) Request {
	t.Helper()
	req, err := NewQuizRequest("Go", Intermediate, count)
	require.NoError(t, err)
	return req
}

func TestValidateRoadmap_Normalizes(t *testing.T) {
	raw := json.RawMessage(`{
		"title": "Go Learning Path",
		"topic": "something else",
		"phases": [
			{"week": 1, "title": "Basics", "topics": ["a","b","c","d"], "completed": true},
			{"week": 2, "title": "Types", "topics": ["a","b","c","d","e"]}
		]
	}`)

	r, err := ValidateRoadmap(raw, roadmapReq(t, 2))
	require.NoError(t, err)

	assert.Equal(t, "Go Learning Path", r.Title)
	assert.Equal(t, "Go", r.Topic)
	assert.Equal(t, Beginner, r.Difficulty)
	assert.Equal(t, 2, r.Duration)
	require.Len(t, r.Phases, r.Duration)
	for _, ph := range r.Phases {
		assert.False(t, ph.Completed)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, r.Phases[1].Topics)
}

func TestValidateRoadmap_TitleOptional(t *testing.T) {
	raw := json.RawMessage(`{"phases":[{"week":1,"title":"Basics","topics":["a"]}]}`)
	r, err := ValidateRoadmap(raw, roadmapReq(t, 1))
	require.NoError(t, err)
	assert.Empty(t, r.Title)
}

func TestValidateRoadmap_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing phases", `{"title":"X"}`},
		{"phases not array", `{"title":"X","phases":{"week":1}}`},
		{"wrong count", `{"phases":[{"week":1,"title":"a","topics":[]},{"week":2,"title":"b","topics":[]}]}`},
		{"phase without week", `{"phases":[{"title":"a","topics":[]},{"week":2,"title":"b","topics":[]},{"week":3,"title":"c","topics":[]}]}`},
		{"phase without topics", `{"phases":[{"week":1,"title":"a"},{"week":2,"title":"b","topics":[]},{"week":3,"title":"c","topics":[]}]}`},
		{"week zero", `{"phases":[{"week":0,"title":"a","topics":[]},{"week":2,"title":"b","topics":[]},{"week":3,"title":"c","topics":[]}]}`},
		{"not json", `{"phases": [,]}`},
		{"top-level array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRoadmap(json.RawMessage(tt.raw), roadmapReq(t, 3))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestValidateQuiz_RoundTrip(t *testing.T) {
	raw := json.RawMessage(`[{"question":"Q1","options":["A","B","C","D"],"correctAnswer":2,"explanation":"E1"},{"question":"Q2","options":["A","B","C","D"],"correctAnswer":0,"explanation":"E2"}]`)

	q, err := ValidateQuiz(raw, quizReq(t, 2))
	require.NoError(t, err)
	require.Len(t, q, 2)
	assert.Equal(t, 2, q[0].CorrectAnswer)
	assert.Equal(t, 0, q[1].CorrectAnswer)
	assert.Equal(t, "Q1", q[0].Question)
	assert.Equal(t, "E2", q[1].Explanation)
	assert.Equal(t, []string{"A", "B", "C", "D"}, q[1].Options)
}

func TestValidateQuiz_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"object not array", `{"question":"Q1","options":["A","B","C","D"],"correctAnswer":0,"explanation":"E"}`},
		{"wrong count", `[{"question":"Q1","options":["A","B","C","D"],"correctAnswer":0,"explanation":"E"},{"question":"Q2","options":["A","B","C","D"],"correctAnswer":0,"explanation":"E"}]`},
		{"three options", `[{"question":"Q1","options":["A","B","C"],"correctAnswer":0,"explanation":"E"}]`},
		{"five options", `[{"question":"Q1","options":["A","B","C","D","E"],"correctAnswer":0,"explanation":"E"}]`},
		{"answer out of range", `[{"question":"Q1","options":["A","B","C","D"],"correctAnswer":4,"explanation":"E"}]`},
		{"negative answer", `[{"question":"Q1","options":["A","B","C","D"],"correctAnswer":-1,"explanation":"E"}]`},
		{"answer not integer", `[{"question":"Q1","options":["A","B","C","D"],"correctAnswer":"B","explanation":"E"}]`},
		{"missing explanation", `[{"question":"Q1","options":["A","B","C","D"],"correctAnswer":0}]`},
		{"missing question", `[{"options":["A","B","C","D"],"correctAnswer":0,"explanation":"E"}]`},
		{"truncated", `[{"question":"Q1","options":["A","B"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateQuiz(json.RawMessage(tt.raw), quizReq(t, 1))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestSchemaFor(t *testing.T) {
	assert.Same(t, RoadmapSchema, SchemaFor(KindRoadmap))
	assert.Same(t, QuizSchema, SchemaFor(KindQuiz))
}

func TestValidateQuiz_IntegralFloatAnswer(t *testing.T) {
	req, err := NewQuizRequest("Go", Beginner, 2)
	require.NoError(t, err)

	raw := json.RawMessage(`[{"question":"Q1","options":["A","B","C","D"],"correctAnswer":2.0,"explanation":"E1"},{"question":"Q2","options":["A","B","C","D"],"correctAnswer":1.0,"explanation":"E2"}]`)
	q, err := ValidateQuiz(raw, req)
	require.NoError(t, err)
	assert.Equal(t, 2, q[0].CorrectAnswer)
	assert.Equal(t, 1, q[1].CorrectAnswer)
}

func TestValidateQuiz_FloatAnswerOutOfRange(t *testing.T) {
	req, err := NewQuizRequest("Go", Beginner, 1)
	require.NoError(t, err)

	_, err = ValidateQuiz(json.RawMessage(`[{"question":"Q1","options":["A","B","C","D"],"correctAnswer":4.0,"explanation":"E"}]`), req)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestAnswerIndex(t *testing.T) {
	for _, tt := range []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"3", 3, false},
		{"1.0", 1, false},
		{"2.5", 0, true},
		{"1e12", 0, true},
	} {
		got, err := answerIndex(json.Number(tt.in))
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
