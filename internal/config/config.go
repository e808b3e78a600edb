package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values come from environment variables with sensible defaults.
//
// Environment Variables:
// HTTP Configuration:
// - HTTP_ADDR: listen address (default: :5000)
//
// Storage Configuration:
// - UPLOAD_DIR: directory for uploaded media (default: uploads)
// - SCRATCH_DIR: directory for temporary audio artifacts (default: <tmp>/caption-scratch)
//
// Pipeline Configuration:
// - MAX_WORDS_PER_SENTENCE: simplifier chunk limit (default: 15)
// - MAX_CONCURRENT_JOBS: concurrent pipeline cap, 0 = unlimited (default: 0)
// - EXTRACT_TIMEOUT: audio extraction timeout in seconds (default: 180)
// - TRANSCRIBE_TIMEOUT: transcription timeout in seconds (default: 300)
// - FFMPEG_CMD: ffmpeg binary (default: ffmpeg)
// - YTDLP_CMD: yt-dlp binary (default: yt-dlp)
//
// Translation Configuration:
// - TRANSLATE_API_URL: LibreTranslate endpoint (default: https://libretranslate.de/translate)
// - TRANSLATE_TIMEOUT: request timeout in seconds (default: 30)
//
// Transcription Configuration:
// - STT_API_URL: speech-to-text service endpoint (required)
// - STT_TIMEOUT: request timeout in seconds (default: 300)
//
// Cleanup Configuration:
// - CLEANUP_CRON: sweep schedule, 5-field cron (default: */30 * * * *)
// - CLEANUP_TTL_MINUTES: age after which scratch/upload files are removed (default: 120)
//
// System Configuration:
// - LOG_LEVEL: debug|info|warn|error (default: info)

type Config struct {
	HTTP      HTTPConfig      `json:"http"`
	Storage   StorageConfig   `json:"storage"`
	Pipeline  PipelineConfig  `json:"pipeline"`
	Translate TranslateConfig `json:"translate"`
	STT       STTConfig       `json:"stt"`
	Cleanup   CleanupConfig   `json:"cleanup"`
	LogLevel  string          `json:"log_level"`
}

type HTTPConfig struct {
	Addr string `json:"addr"`
}

// StorageConfig holds the upload and scratch directories. Both are created
// on startup if missing.
type StorageConfig struct {
	UploadDir  string `json:"upload_dir"`
	ScratchDir string `json:"scratch_dir"`
}

type PipelineConfig struct {
	MaxWordsPerSentence int    `json:"max_words_per_sentence"`
	MaxConcurrentJobs   int64  `json:"max_concurrent_jobs"`
	ExtractTimeout      int    `json:"extract_timeout"`
	TranscribeTimeout   int    `json:"transcribe_timeout"`
	FfmpegCmd           string `json:"ffmpeg_cmd"`
	YtdlpCmd            string `json:"ytdlp_cmd"`
}

type TranslateConfig struct {
	APIURL  string `json:"api_url"`
	Timeout int    `json:"timeout"`
}

type STTConfig struct {
	APIURL  string `json:"api_url"`
	Timeout int    `json:"timeout"`
}

type CleanupConfig struct {
	CronExpr   string `json:"cron_expr"`
	TTLMinutes int    `json:"ttl_minutes"`
}

func (c CleanupConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// NewFromEnv creates a Config from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Addr: getEnvString("HTTP_ADDR", ":5000"),
		},
		Storage: StorageConfig{
			UploadDir:  getEnvString("UPLOAD_DIR", "uploads"),
			ScratchDir: getEnvString("SCRATCH_DIR", filepath.Join(os.TempDir(), "caption-scratch")),
		},
		Pipeline: PipelineConfig{
			MaxWordsPerSentence: getEnvInt("MAX_WORDS_PER_SENTENCE", 15),
			MaxConcurrentJobs:   int64(getEnvInt("MAX_CONCURRENT_JOBS", 0)),
			ExtractTimeout:      getEnvInt("EXTRACT_TIMEOUT", 180),
			TranscribeTimeout:   getEnvInt("TRANSCRIBE_TIMEOUT", 300),
			FfmpegCmd:           getEnvString("FFMPEG_CMD", "ffmpeg"),
			YtdlpCmd:            getEnvString("YTDLP_CMD", "yt-dlp"),
		},
		Translate: TranslateConfig{
			APIURL:  getEnvString("TRANSLATE_API_URL", "https://libretranslate.de/translate"),
			Timeout: getEnvInt("TRANSLATE_TIMEOUT", 30),
		},
		STT: STTConfig{
			APIURL:  getEnvString("STT_API_URL", ""),
			Timeout: getEnvInt("STT_TIMEOUT", 300),
		},
		Cleanup: CleanupConfig{
			CronExpr:   getEnvString("CLEANUP_CRON", "*/30 * * * *"),
			TTLMinutes: getEnvInt("CLEANUP_TTL_MINUTES", 120),
		},
		LogLevel: getEnvString("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a pipeline.
func (c *Config) Validate() error {
	if c.Pipeline.MaxWordsPerSentence <= 0 {
		return fmt.Errorf("MAX_WORDS_PER_SENTENCE must be positive, got %d", c.Pipeline.MaxWordsPerSentence)
	}
	if c.Pipeline.MaxConcurrentJobs < 0 {
		return fmt.Errorf("MAX_CONCURRENT_JOBS must be >= 0, got %d", c.Pipeline.MaxConcurrentJobs)
	}
	if c.Translate.APIURL == "" {
		return fmt.Errorf("TRANSLATE_API_URL must not be empty")
	}
	if c.STT.APIURL == "" {
		return fmt.Errorf("STT_API_URL must not be empty")
	}
	if c.Cleanup.TTLMinutes <= 0 {
		return fmt.Errorf("CLEANUP_TTL_MINUTES must be positive, got %d", c.Cleanup.TTLMinutes)
	}
	return nil
}

// EnsureDirs creates the upload and scratch directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Storage.UploadDir, c.Storage.ScratchDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
