// Package pipeline runs the per-job captioning sequence: acquire audio,
// transcribe, simplify, maybe translate, emit events. Each execution owns
// its job and temporary artifact exclusively; the session hub is the only
// shared collaborator.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/events"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/language"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/simplify"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/transcribe"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/log"
)

// AudioExtractor derives a WAV artifact from a local media file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, mediaPath string) (string, error)
}

// AudioFetcher derives a WAV artifact from a streaming URL.
type AudioFetcher interface {
	FetchAudio(ctx context.Context, url string) (string, error)
}

// Translator decides and performs caption translation.
type Translator interface {
	MaybeTranslate(ctx context.Context, text, targetLang, recognizedLang string) (string, error)
}

// Config carries the per-stage tuning shared by every execution.
type Config struct {
	MaxWordsPerSentence int
	ExtractTimeout      time.Duration
	TranscribeTimeout   time.Duration
}

// Pipeline holds the stage collaborators. It carries no per-job state and
// is shared by all concurrent executions.
type Pipeline struct {
	cfg         Config
	extractor   AudioExtractor
	fetcher     AudioFetcher
	recognizers transcribe.Factory
	translator  Translator
	hub         *events.Hub
}

func New(
	cfg Config,
	extractor AudioExtractor,
	fetcher AudioFetcher,
	recognizers transcribe.Factory,
	translator Translator,
	hub *events.Hub,
) *Pipeline {
	if cfg.MaxWordsPerSentence <= 0 {
		cfg.MaxWordsPerSentence = simplify.DefaultMaxWords
	}
	return &Pipeline{
		cfg:         cfg,
		extractor:   extractor,
		fetcher:     fetcher,
		recognizers: recognizers,
		translator:  translator,
		hub:         hub,
	}
}

// Run executes one job to completion. Every failure is contained here and
// converted into a single error event; the temporary artifact is removed on
// every exit path.
func (p *Pipeline) Run(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job %s panicked: %v", job.ID, r)
			p.hub.Publish(job.SessionID, events.Failure(fmt.Sprintf("internal error: %v", r)))
		}
	}()

	log.Info("Job %s: starting %s pipeline for session %s", job.ID, job.Kind, job.SessionID)

	artifact, err := p.acquireAudio(ctx, job)
	if err != nil {
		stageErr := NewStageError(StageExtraction, err)
		log.Error("Job %s: %v", job.ID, stageErr)
		p.hub.Publish(job.SessionID, events.Failure(stageErr.Public()))
		return
	}
	defer p.removeArtifact(job, artifact)

	recognizedLang := language.Resolve(job.TargetLang)
	recognizer := p.recognizers(recognizedLang)

	result, err := p.transcribeArtifact(ctx, recognizer, artifact)
	if err != nil {
		stageErr := NewStageError(StageTranscription, err)
		log.Error("Job %s: %v", job.ID, stageErr)
		p.hub.Publish(job.SessionID, events.Failure(stageErr.Public()))
		return
	}

	if result.Transcript != "" {
		simplified := simplify.Simplify(result.Transcript, p.cfg.MaxWordsPerSentence)

		text, err := p.translator.MaybeTranslate(ctx, simplified, job.TargetLang, recognizedLang)
		if err != nil {
			stageErr := NewStageError(StageTranslation, err)
			log.Error("Job %s: %v", job.ID, stageErr)
			p.hub.Publish(job.SessionID, events.Failure(stageErr.Public()))
			return
		}

		p.hub.Publish(job.SessionID, events.Caption(text, result.Transcript, result.Confidence))
	} else {
		log.Info("Job %s: empty transcript, skipping caption", job.ID)
	}

	p.hub.Publish(job.SessionID, events.Done(result.Transcript))
	log.Info("Job %s: done", job.ID)
}

func (p *Pipeline) acquireAudio(ctx context.Context, job Job) (string, error) {
	if p.cfg.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ExtractTimeout)
		defer cancel()
	}

	switch job.Kind {
	case SourceYouTube:
		return p.fetcher.FetchAudio(ctx, job.MediaRef)
	default:
		return p.extractor.ExtractAudio(ctx, job.MediaRef)
	}
}

func (p *Pipeline) transcribeArtifact(ctx context.Context, recognizer transcribe.Recognizer, artifact string) (transcribe.Result, error) {
	if p.cfg.TranscribeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.TranscribeTimeout)
		defer cancel()
	}
	return recognizer.Transcribe(ctx, artifact)
}

func (p *Pipeline) removeArtifact(job Job, artifact string) {
	if artifact == "" {
		return
	}
	if err := os.Remove(artifact); err != nil && !os.IsNotExist(err) {
		log.Warn("Job %s: failed to remove artifact %s: %v", job.ID, artifact, err)
	}
}
