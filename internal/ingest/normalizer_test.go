package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mbarranco/clipmill/internal/logger"
)

type fakeTranscriber struct {
	text string
	err  error
	path string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioPath string) (string, error) {
	f.path = audioPath
	return f.text, f.err
}

func TestNormalizeScript(t *testing.T) {
	n := NewNormalizer(nil, t.TempDir(), logger.Default())

	text, err := n.Normalize(context.Background(), Input{Kind: KindScript, Text: "  a perfectly good script about volcanoes  "})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if text != "a perfectly good script about volcanoes" {
		t.Errorf("Unexpected text: %q", text)
	}

	if _, err := n.Normalize(context.Background(), Input{Kind: KindScript, Text: "too short"}); err == nil {
		t.Error("Expected error for short script input")
	}
}

func TestNormalizeSamples(t *testing.T) {
	n := NewNormalizer(nil, t.TempDir(), logger.Default())

	text, err := n.Normalize(context.Background(), Input{
		Kind:    KindSamples,
		Samples: []string{"sample one", "", "  sample two  "},
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if text != "sample one\n---\nsample two" {
		t.Errorf("Unexpected joined samples: %q", text)
	}

	if _, err := n.Normalize(context.Background(), Input{Kind: KindSamples, Samples: []string{"", "   "}}); err == nil {
		t.Error("Expected error for empty samples")
	}
}

func TestNormalizeAudio(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "clip.mp3")
	if err := os.WriteFile(audioPath, []byte("not really audio"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	ft := &fakeTranscriber{text: "transcribed words"}
	n := NewNormalizer(ft, dir, logger.Default())

	text, err := n.Normalize(context.Background(), Input{Kind: KindAudio, Path: audioPath})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if text != "transcribed words" {
		t.Errorf("Unexpected text: %q", text)
	}
	if ft.path != audioPath {
		t.Errorf("Expected transcriber to receive %s, got %s", audioPath, ft.path)
	}

	if _, err := n.Normalize(context.Background(), Input{Kind: KindAudio, Path: filepath.Join(dir, "missing.mp3")}); err == nil {
		t.Error("Expected error for missing audio file")
	}
}

func TestNormalizeInvalidInput(t *testing.T) {
	n := NewNormalizer(nil, t.TempDir(), logger.Default())

	if _, err := n.Normalize(context.Background(), Input{Kind: KindURL, Text: "ftp://nope"}); err == nil {
		t.Error("Expected error for non-http url")
	}
	if _, err := n.Normalize(context.Background(), Input{Kind: "mystery"}); err == nil {
		t.Error("Expected error for unknown input kind")
	}
}
