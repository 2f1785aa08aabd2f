package footage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mbarranco/clipmill/internal/constants"
	"github.com/mbarranco/clipmill/internal/httpclient"
	"github.com/mbarranco/clipmill/internal/logger"
)

func newTestPexels(t *testing.T, handler http.HandlerFunc) *PexelsClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewPexelsClient(httpclient.NewClient(srv.Client(), constants.MinRequestInterval), "test-key", logger.Default())
	c.baseURL = srv.URL
	return c
}

func TestSearchPrefersHD(t *testing.T) {
	c := newTestPexels(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("Unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "ocean waves" {
			t.Errorf("Unexpected query %q", got)
		}
		resp := map[string]any{
			"videos": []map[string]any{
				{
					"video_files": []map[string]any{
						{"quality": "sd", "link": "https://vid.example/sd.mp4"},
						{"quality": "hd", "link": "https://vid.example/hd.mp4"},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	links, err := c.Search(context.Background(), "ocean waves")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(links) != 1 || links[0] != "https://vid.example/hd.mp4" {
		t.Errorf("Expected HD link, got %v", links)
	}
}

func TestSearchFallsBackToFirstFile(t *testing.T) {
	c := newTestPexels(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"videos": []map[string]any{
				{
					"video_files": []map[string]any{
						{"quality": "sd", "link": "https://vid.example/only.mp4"},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	links, err := c.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(links) != 1 || links[0] != "https://vid.example/only.mp4" {
		t.Errorf("Expected fallback link, got %v", links)
	}
}

func TestSearchNoResults(t *testing.T) {
	c := newTestPexels(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"videos": []any{}})
	})

	links, err := c.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("Expected no links, got %v", links)
	}
}

func TestSearchWithoutKey(t *testing.T) {
	c := NewPexelsClient(httpclient.NewClient(nil, constants.MinRequestInterval), "", logger.Default())
	if _, err := c.Search(context.Background(), "anything"); err == nil {
		t.Error("Expected error without api key")
	}
}
