package generation

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationFailed matches every terminal pipeline failure.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrInvalidRequest is returned before any provider call when the
	// request parameters are unusable.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrExtractionNotFound means the response text held no opening
	// delimiter for the expected JSON shape.
	ErrExtractionNotFound = errors.New("no structured payload in response")

	// ErrMalformedPayload means a payload was found but is not valid JSON
	// or does not match the expected shape.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrRetriesExhausted means every primary attempt and the fallback
	// attempt failed with a transient provider error.
	ErrRetriesExhausted = errors.New("provider unavailable after retries and fallback")
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageProvider Stage = "provider"
	StageExtract  Stage = "extract"
	StageValidate Stage = "validate"
)

// GenerationError is the single error type the pipeline returns once a
// request has started. It matches ErrGenerationFailed and its cause.
type GenerationError struct {
	Kind      ContentKind
	Stage     Stage
	RequestID string
	Model     string // model that produced the last response or failure
	Attempts  int    // provider calls made, fallback included
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed at %s stage (model %s, %d attempt(s)): %v",
		e.Kind, e.Stage, e.Model, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrGenerationFailed, e.Err}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}
