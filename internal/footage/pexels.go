// Package footage searches stock video providers for downloadable clips.
package footage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mbarranco/clipmill/internal/httpclient"
	"github.com/mbarranco/clipmill/internal/logger"
)

const pexelsBaseURL = "https://api.pexels.com/videos"

// Searcher finds zero or more downloadable video links for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// PexelsClient queries the Pexels video search API.
type PexelsClient struct {
	http    *httpclient.Client
	apiKey  string
	baseURL string
	log     *logger.Logger
}

func NewPexelsClient(hc *httpclient.Client, apiKey string, log *logger.Logger) *PexelsClient {
	return &PexelsClient{
		http:    hc,
		apiKey:  apiKey,
		baseURL: pexelsBaseURL,
		log:     log.WithComponent("footage"),
	}
}

type pexelsResponse struct {
	Videos []struct {
		VideoFiles []struct {
			Quality string `json:"quality"`
			Link    string `json:"link"`
		} `json:"video_files"`
	} `json:"videos"`
}

// Search returns downloadable video links for a query, preferring HD files.
func (c *PexelsClient) Search(ctx context.Context, query string) ([]string, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("pexels api key not configured")
	}

	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=1&orientation=landscape",
		c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out pexelsResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	var links []string
	for _, video := range out.Videos {
		link := ""
		for _, vf := range video.VideoFiles {
			if vf.Quality == "hd" && vf.Link != "" {
				link = vf.Link
				break
			}
		}
		if link == "" && len(video.VideoFiles) > 0 {
			link = video.VideoFiles[0].Link
		}
		if link != "" {
			links = append(links, link)
		}
	}
	c.log.Debug("Pexels search complete", "query", query, "hits", len(links))
	return links, nil
}
