package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/log"
)

// YouTubeFetcher downloads the audio track of a streaming URL straight to a
// recognizer-ready WAV artifact via yt-dlp.
type YouTubeFetcher struct {
	ytdlpCmd   string
	scratchDir string
}

func NewYouTubeFetcher(ytdlpCmd, scratchDir string) YouTubeFetcher {
	if ytdlpCmd == "" {
		ytdlpCmd = "yt-dlp"
	}
	return YouTubeFetcher{
		ytdlpCmd:   ytdlpCmd,
		scratchDir: scratchDir,
	}
}

// FetchAudio downloads the audio of url as a mono 16 kHz WAV artifact and
// returns its path. The caller owns the artifact and must remove it.
func (f YouTubeFetcher) FetchAudio(ctx context.Context, url string) (string, error) {
	cmdPath, err := exec.LookPath(f.ytdlpCmd)
	if err != nil {
		return "", fmt.Errorf("yt-dlp not available: %w", err)
	}

	output := filepath.Join(f.scratchDir, fmt.Sprintf("youtube_%s.wav", uuid.NewString()))
	cmd := exec.CommandContext(ctx, cmdPath, f.fetchArgs(url, output)...)

	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(output)
		log.Error("yt-dlp failed for %s: %v: %s", url, err, tail(string(out)))
		return "", fmt.Errorf("download audio from %s: %w", url, err)
	}

	log.Debug("Downloaded audio artifact %s from %s", output, url)
	return output, nil
}

func (f YouTubeFetcher) fetchArgs(url, output string) []string {
	return []string{
		"-f", "bestaudio",
		"--extract-audio",
		"--audio-format", "wav",
		"--postprocessor-args", "ffmpeg:-ar " + sampleRate + " -ac " + channels,
		"--no-playlist",
		"-o", output,
		url,
	}
}
