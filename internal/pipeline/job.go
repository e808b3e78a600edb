package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// SourceKind tells the pipeline how to acquire audio for a job.
type SourceKind string

const (
	SourceUpload  SourceKind = "upload"
	SourceYouTube SourceKind = "youtube"
)

// Job is one end-to-end captioning request bound to a live session. It is
// owned by exactly one pipeline execution, never persisted and never
// retried.
type Job struct {
	ID         string     `json:"id"`
	SessionID  string     `json:"session_id"`
	MediaRef   string     `json:"media_ref"`
	Kind       SourceKind `json:"kind"`
	TargetLang string     `json:"target_lang"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewJob builds a Job with a fresh id. An empty target language defaults to
// English.
func NewJob(sessionID, mediaRef string, kind SourceKind, targetLang string) Job {
	if targetLang == "" {
		targetLang = "en"
	}
	return Job{
		ID:         "job-" + uuid.NewString(),
		SessionID:  sessionID,
		MediaRef:   mediaRef,
		Kind:       kind,
		TargetLang: targetLang,
		CreatedAt:  time.Now().UTC(),
	}
}
