package pipeline

import "fmt"

// Stage identifies where in a pipeline execution a failure happened.
type Stage int

const (
	StageExtraction Stage = iota
	StageTranscription
	StageTranslation
)

func (s Stage) String() string {
	switch s {
	case StageExtraction:
		return "extraction"
	case StageTranscription:
		return "transcription"
	case StageTranslation:
		return "translation"
	default:
		return "unknown"
	}
}

// StageError wraps a stage failure. Error() is for logs; Public() is the
// short message allowed to cross the session boundary.
type StageError struct {
	Stage Stage
	Cause error
}

func NewStageError(stage Stage, cause error) *StageError {
	return &StageError{Stage: stage, Cause: cause}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// Public returns the user-facing message. Extraction failures collapse to a
// fixed string; later stages surface the cause, which client code already
// keeps short.
func (e *StageError) Public() string {
	if e.Stage == StageExtraction {
		return "extraction failed"
	}
	return e.Cause.Error()
}
