package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mbarranco/clipmill/internal/constants"
	"github.com/mbarranco/clipmill/internal/httpclient"
	"github.com/mbarranco/clipmill/internal/logger"
)

const deepgramBaseURL = "https://api.deepgram.com/v1"

// Deepgram synthesizes voiceovers through the Deepgram Aura TTS API.
type Deepgram struct {
	http    *httpclient.Client
	apiKey  string
	model   string
	baseURL string
	log     *logger.Logger
}

func NewDeepgram(hc *httpclient.Client, apiKey, model string, log *logger.Logger) *Deepgram {
	return &Deepgram{
		http:    hc,
		apiKey:  apiKey,
		model:   model,
		baseURL: deepgramBaseURL,
		log:     log.WithComponent("tts-deepgram"),
	}
}

func (d *Deepgram) Name() string { return "deepgram" }

type deepgramRequest struct {
	Text string `json:"text"`
}

func (d *Deepgram) Synthesize(ctx context.Context, text, outPath string) error {
	if d.apiKey == "" {
		return fmt.Errorf("deepgram api key not configured")
	}

	trimmed := truncateAtSentence(text, constants.DeepgramCharLimit)
	if len(trimmed) < len(text) {
		d.log.Warn("Script exceeds Deepgram limit, truncating",
			"original", len(text), "truncated", len(trimmed))
	}

	body, err := json.Marshal(deepgramRequest{Text: trimmed})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/speak?model=%s", d.baseURL, url.QueryEscape(d.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+d.apiKey)

	d.log.Info("Requesting voiceover", "model", d.model, "chars", len(trimmed))
	resp, err := d.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("deepgram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("deepgram returned status %d: %s", resp.StatusCode, snippet)
	}

	return writeAudio(resp.Body, outPath)
}

// truncateAtSentence caps text at limit characters, cutting at the last full
// sentence when one exists.
func truncateAtSentence(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	truncated := text[:limit]
	if idx := strings.LastIndex(truncated, "."); idx != -1 {
		return truncated[:idx+1]
	}
	return truncated
}
