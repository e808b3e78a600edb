// Package media derives single-channel 16 kHz WAV audio artifacts from
// local media files and streaming URLs by shelling out to ffmpeg / yt-dlp.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/file"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/log"
)

// sampleRate and channel layout expected by the recognizer.
const (
	sampleRate = "16000"
	channels   = "1"
)

// Extractor produces audio artifacts under a scratch directory. Every
// artifact path carries a random token so concurrent jobs never collide.
type Extractor struct {
	ffmpegCmd  string
	scratchDir string
}

func NewExtractor(ffmpegCmd, scratchDir string) Extractor {
	if ffmpegCmd == "" {
		ffmpegCmd = "ffmpeg"
	}
	return Extractor{
		ffmpegCmd:  ffmpegCmd,
		scratchDir: scratchDir,
	}
}

// ArtifactPath returns a fresh per-job output path inside the scratch dir,
// named after the source media plus a random token so concurrent jobs for
// the same file never collide.
func (e Extractor) ArtifactPath(mediaPath string) string {
	base := file.SanitizeName(filepath.Base(file.ReplaceExt(mediaPath, "")))
	return filepath.Join(e.scratchDir, fmt.Sprintf("%s_audio_%s.wav", base, uuid.NewString()))
}

// ExtractAudio converts the media file into a mono 16 kHz WAV artifact and
// returns its path. The caller owns the artifact and must remove it.
func (e Extractor) ExtractAudio(ctx context.Context, mediaPath string) (string, error) {
	cmdPath, err := exec.LookPath(e.ffmpegCmd)
	if err != nil {
		return "", fmt.Errorf("ffmpeg not available: %w", err)
	}

	output := e.ArtifactPath(mediaPath)
	cmd := exec.CommandContext(ctx, cmdPath, e.extractArgs(mediaPath, output)...)

	if out, err := cmd.CombinedOutput(); err != nil {
		// A failed run may leave a partial artifact behind.
		_ = os.Remove(output)
		log.Error("ffmpeg failed for %s: %v: %s", mediaPath, err, tail(string(out)))
		return "", fmt.Errorf("extract audio from %s: %w", mediaPath, err)
	}

	log.Debug("Extracted audio artifact %s from %s", output, mediaPath)
	return output, nil
}

func (e Extractor) extractArgs(mediaPath, output string) []string {
	return []string{
		"-i", mediaPath,
		"-vn",
		"-ar", sampleRate,
		"-ac", channels,
		"-f", "wav",
		"-y",
		output,
	}
}

// tail keeps the last few lines of tool output for log messages.
func tail(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	if len(lines) <= 3 {
		return s
	}
	return strings.Join(lines[len(lines)-3:], "\n")
}
