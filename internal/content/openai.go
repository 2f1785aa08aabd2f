package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mbarranco/clipmill/internal/constants"
	"github.com/mbarranco/clipmill/internal/httpclient"
	"github.com/mbarranco/clipmill/internal/logger"
)

const topicSystemPrompt = "You are an assistant skilled in creating engaging YouTube video topic ideas."

const scriptSystemPrompt = `You are a helpful assistant skilled in writing engaging scripts for short, faceless YouTube videos (like informative slideshows).
The script should have a clear Hook and Body section.
The tone should be informative, clear, and easy to follow.
Keep sentences relatively short for easy voiceover and captioning.`

// Client talks to an OpenAI-compatible API for chat and image generation.
type Client struct {
	http       *httpclient.Client
	baseURL    string
	apiKey     string
	chatModel  string
	imageModel string
	log        *logger.Logger
}

type Options struct {
	BaseURL    string
	APIKey     string
	ChatModel  string
	ImageModel string
}

func NewClient(hc *httpclient.Client, opts Options, log *logger.Logger) *Client {
	if hc == nil {
		hc = httpclient.NewClient(nil, constants.MinRequestInterval)
	}
	return &Client{
		http:       hc,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		chatModel:  opts.ChatModel,
		imageModel: opts.ImageModel,
		log:        log.WithComponent("content"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) ExtractTopics(ctx context.Context, text string, count int) ([]string, error) {
	if len(text) > constants.TopicInputLimit {
		text = text[:constants.TopicInputLimit]
	}
	userPrompt := fmt.Sprintf(`Based on the following input text, generate a list of %d distinct and catchy YouTube video topic ideas suitable for faceless videos (like slideshows with voiceover). Format the output as a numbered list, with each topic on a new line.

Input Text:
---
%s
---

Example Output Format:
1. Topic Idea One
2. Another Interesting Topic
3. A Third Topic Suggestion
`, count, text)

	raw, err := c.chat(ctx, topicSystemPrompt, userPrompt, 0.7, 300*count/10+300)
	if err != nil {
		return nil, fmt.Errorf("topic extraction failed: %w", err)
	}

	topics := parseTopicList(raw)
	if len(topics) > count {
		topics = topics[:count]
	}
	c.log.Debug("Extracted topics", "requested", count, "got", len(topics))
	return topics, nil
}

func (c *Client) GenerateScript(ctx context.Context, topic string) (string, error) {
	userPrompt := fmt.Sprintf(`Please write a script for a faceless YouTube video on the topic: %q

Target approximate word count: 300 words.

Structure the output exactly like this:

Hook:
[Engaging opening sentence or question related to the topic. Max 1-2 sentences.]

Body:
[Main content discussing the topic. Break it down into logical points or steps. Use paragraphs for separation. Avoid overly complex language. Aim for clarity and conciseness.]
`, topic)

	script, err := c.chat(ctx, scriptSystemPrompt, userPrompt, 0.6, 750)
	if err != nil {
		return "", fmt.Errorf("script generation failed: %w", err)
	}
	c.log.Debug("Generated script", "topic", topic, "length", len(script))
	return script, nil
}

func (c *Client) GenerateImages(ctx context.Context, prompt string, count int, size string) ([]string, error) {
	body, err := json.Marshal(imageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              count,
		Size:           size,
		ResponseFormat: "url",
	})
	if err != nil {
		return nil, err
	}

	var out imageResponse
	if err := c.post(ctx, "/images/generations", body, &out); err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("image generation failed: %s", out.Error.Message)
	}

	urls := make([]string, 0, len(out.Data))
	for _, d := range out.Data {
		if d.URL != "" {
			urls = append(urls, d.URL)
		}
	}
	return urls, nil
}

func (c *Client) chat(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	var out chatResponse
	if err := c.post(ctx, "/chat/completions", body, &out); err != nil {
		return "", err
	}
	if out.Error != nil {
		return "", fmt.Errorf("provider error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	return json.Unmarshal(data, out)
}

// parseTopicList extracts topic lines from a numbered or bulleted list,
// stripping the numbering.
func parseTopicList(raw string) []string {
	var topics []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case line[0] >= '0' && line[0] <= '9':
			if _, rest, found := strings.Cut(line, "."); found {
				line = strings.TrimSpace(rest)
			}
		case strings.HasPrefix(line, "-"):
			line = strings.TrimSpace(line[1:])
		}
		if line != "" {
			topics = append(topics, line)
		}
	}
	return topics
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
