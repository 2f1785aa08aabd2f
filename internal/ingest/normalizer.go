// Package ingest converts heterogeneous raw input (script text, sample
// scripts, a remote video URL, a local audio file) into plain text for
// topic extraction.
package ingest

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mbarranco/clipmill/internal/constants"
	"github.com/mbarranco/clipmill/internal/logger"
	"github.com/mbarranco/clipmill/internal/transcribe"
)

type Kind string

const (
	KindScript  Kind = "script"
	KindSamples Kind = "samples"
	KindURL     Kind = "url"
	KindAudio   Kind = "audio_path"
)

// Input is one piece of raw user input. Text carries script/url input,
// Samples carries sample scripts, Path carries a local audio file.
type Input struct {
	Kind    Kind
	Text    string
	Samples []string
	Path    string
}

type Normalizer struct {
	transcriber transcribe.Transcriber
	downloadDir string
	log         *logger.Logger
}

func NewNormalizer(transcriber transcribe.Transcriber, downloadDir string, log *logger.Logger) *Normalizer {
	return &Normalizer{
		transcriber: transcriber,
		downloadDir: downloadDir,
		log:         log.WithComponent("ingest"),
	}
}

// Normalize returns the plain text behind an input. Input problems are
// reported to the caller as errors; nothing is persisted here.
func (n *Normalizer) Normalize(ctx context.Context, in Input) (string, error) {
	switch in.Kind {
	case KindScript:
		text := strings.TrimSpace(in.Text)
		if len(text) <= 10 {
			return "", fmt.Errorf("script input too short")
		}
		return text, nil

	case KindSamples:
		var samples []string
		for _, s := range in.Samples {
			if s = strings.TrimSpace(s); s != "" {
				samples = append(samples, s)
			}
		}
		if len(samples) == 0 {
			return "", fmt.Errorf("no usable sample scripts provided")
		}
		return strings.Join(samples, "\n---\n"), nil

	case KindURL:
		url := strings.TrimSpace(in.Text)
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return "", fmt.Errorf("invalid url input: %q", url)
		}
		if n.transcriber == nil {
			return "", fmt.Errorf("transcription is not configured")
		}
		audioPath, err := n.downloadAudio(ctx, url)
		if err != nil {
			return "", err
		}
		return n.transcriber.Transcribe(ctx, audioPath)

	case KindAudio:
		if _, err := os.Stat(in.Path); err != nil {
			return "", fmt.Errorf("audio file not found: %s", in.Path)
		}
		if n.transcriber == nil {
			return "", fmt.Errorf("transcription is not configured")
		}
		return n.transcriber.Transcribe(ctx, in.Path)
	}

	return "", fmt.Errorf("unknown input kind: %q", in.Kind)
}

// downloadAudio extracts the audio track of a remote video with yt-dlp and
// returns the path of the downloaded mp3.
func (n *Normalizer) downloadAudio(ctx context.Context, url string) (string, error) {
	if err := os.MkdirAll(n.downloadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	prefix := fmt.Sprintf("ingest_%d", time.Now().Unix())
	outputTemplate := filepath.Join(n.downloadDir, prefix+".%(ext)s")

	ctx, cancel := context.WithTimeout(ctx, constants.YtDlpTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"-f", "bestaudio/best",
		"-o", outputTemplate,
		"--no-playlist",
		"--socket-timeout", "30",
		url,
	)
	n.log.Info("Downloading audio", "url", url)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	// yt-dlp substitutes the real extension; find the file it produced.
	matches, err := filepath.Glob(filepath.Join(n.downloadDir, prefix+".*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("yt-dlp ran but no downloaded file was found")
	}
	n.log.Info("Audio downloaded", "path", matches[0])
	return matches[0], nil
}
