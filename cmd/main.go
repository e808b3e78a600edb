package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/config"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/events"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/httpapi"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/janitor"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/media"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/pipeline"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/transcribe"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/translate"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/log"
)

const shutdownGrace = 10 * time.Second

func main() {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log.InitLogger(log.ParseLevel(cfg.LogLevel))

	if err := cfg.EnsureDirs(); err != nil {
		log.Fatal("Failed to prepare directories: %v", err)
	}

	hub := events.NewHub()
	extractor := media.NewExtractor(cfg.Pipeline.FfmpegCmd, cfg.Storage.ScratchDir)
	fetcher := media.NewYouTubeFetcher(cfg.Pipeline.YtdlpCmd, cfg.Storage.ScratchDir)
	recognizers := transcribe.NewHTTPFactory(
		cfg.STT.APIURL,
		transcribe.WithTimeout(time.Duration(cfg.STT.Timeout)*time.Second),
	)
	translator := translate.NewClient(
		cfg.Translate.APIURL,
		translate.WithTimeout(time.Duration(cfg.Translate.Timeout)*time.Second),
	)

	pipe := pipeline.New(
		pipeline.Config{
			MaxWordsPerSentence: cfg.Pipeline.MaxWordsPerSentence,
			ExtractTimeout:      time.Duration(cfg.Pipeline.ExtractTimeout) * time.Second,
			TranscribeTimeout:   time.Duration(cfg.Pipeline.TranscribeTimeout) * time.Second,
		},
		extractor, fetcher, recognizers, translator, hub,
	)
	dispatcher := pipeline.NewDispatcher(pipe, hub, cfg.Pipeline.MaxConcurrentJobs)

	sweeper := janitor.New(cfg.Cleanup.CronExpr, cfg.Cleanup.TTL(),
		cfg.Storage.UploadDir, cfg.Storage.ScratchDir)

	server := httpapi.NewServer(cfg.Storage.UploadDir, hub, dispatcher,
		httpapi.WithJanitor(sweeper))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runWithComponents(ctx, cfg, sweeper, server, dispatcher); err != nil {
		log.Fatal("Server error: %v", err)
	}
}

type cleanupScheduler interface {
	Start() error
	Stop()
}

type httpServer interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

type jobWaiter interface {
	Wait()
}

func runWithComponents(
	ctx context.Context,
	cfg *config.Config,
	sweeper cleanupScheduler,
	server httpServer,
	jobs jobWaiter,
) error {
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("start cleanup scheduler: %w", err)
	}
	defer sweeper.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(cfg.HTTP.Addr)
	}()
	log.Info("Listening on %s", cfg.HTTP.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		jobs.Wait()

		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
