package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mbarranco/clipmill/internal/httpclient"
	"github.com/mbarranco/clipmill/internal/logger"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

// ElevenLabs synthesizes voiceovers through the ElevenLabs TTS API.
type ElevenLabs struct {
	http    *httpclient.Client
	apiKey  string
	voiceID string
	baseURL string
	log     *logger.Logger
}

func NewElevenLabs(hc *httpclient.Client, apiKey, voiceID string, log *logger.Logger) *ElevenLabs {
	return &ElevenLabs{
		http:    hc,
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: elevenLabsBaseURL,
		log:     log.WithComponent("tts-elevenlabs"),
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

type elevenLabsRequest struct {
	Text          string             `json:"text"`
	ModelID       string             `json:"model_id"`
	VoiceSettings elevenLabsSettings `json:"voice_settings"`
}

type elevenLabsSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text, outPath string) error {
	if e.apiKey == "" {
		return fmt.Errorf("elevenlabs api key not configured")
	}
	if e.voiceID == "" {
		return fmt.Errorf("elevenlabs voice id not configured")
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: "eleven_multilingual_v2",
		VoiceSettings: elevenLabsSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", e.baseURL, e.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	e.log.Info("Requesting voiceover", "voice_id", e.voiceID, "chars", len(text))
	resp, err := e.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("elevenlabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("elevenlabs returned status %d: %s", resp.StatusCode, snippet)
	}

	return writeAudio(resp.Body, outPath)
}

// writeAudio streams response audio to disk and rejects empty output.
func writeAudio(r io.Reader, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outPath)
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if n == 0 {
		os.Remove(outPath)
		return fmt.Errorf("provider returned empty audio")
	}
	return nil
}
