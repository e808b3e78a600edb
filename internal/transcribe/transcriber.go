// Package transcribe defines the speech-to-text boundary of the pipeline.
package transcribe

import "context"

// ConfidenceUnknown is reported when the recognizer gives no usable score.
const ConfidenceUnknown = -1

// Result is the output of one transcription run. Transcript may be empty
// when the audio contained no recognizable speech; that is not an error.
// Confidence is in [0,1], or ConfidenceUnknown.
type Result struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// Recognizer transcribes one audio artifact. Implementations are
// constructed with the recognizer language already resolved.
type Recognizer interface {
	Transcribe(ctx context.Context, audioPath string) (Result, error)
}

// Factory builds a Recognizer for a resolved recognizer language code.
// The pipeline constructs one recognizer per job.
type Factory func(languageCode string) Recognizer
