package generation

import (
	"encoding/json"
	"strings"
)

// Shape is the top-level JSON shape expected in a response.
type Shape int

const (
	ShapeObject Shape = iota
	ShapeArray
)

func (s Shape) delimiters() (open, close byte) {
	if s == ShapeArray {
		return '[', ']'
	}
	return '{', '}'
}

// ShapeFor returns the payload shape each content kind is requested in.
func ShapeFor(kind ContentKind) Shape {
	if kind == KindQuiz {
		return ShapeArray
	}
	return ShapeObject
}

// Extract returns the slice of text from the first opening delimiter of
// shape through the last closing one, inclusive. Prose and markdown fences
// around the payload are dropped. Delimiters inside surrounding prose can
// widen the slice; the validator then rejects it.
//
// ErrExtractionNotFound is returned only when there is no opening
// delimiter. With no closing delimiter after it, the unterminated tail is
// returned so validation reports it as malformed.
func Extract(text string, shape Shape) (json.RawMessage, error) {
	open, close := shape.delimiters()

	start := strings.IndexByte(text, open)
	if start < 0 {
		return nil, ErrExtractionNotFound
	}

	end := strings.LastIndexByte(text, close)
	if end < start {
		return json.RawMessage(text[start:]), nil
	}
	return json.RawMessage(text[start : end+1]), nil
}
