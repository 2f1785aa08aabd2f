package assetfile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mbarranco/clipmill/internal/httpclient"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Download fetches a URL to destPath. A partial file is removed on failure.
func Download(ctx context.Context, hc *httpclient.Client, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := hc.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	_, err = io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(destPath)
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

// URLExt extracts a file extension from a download URL, ignoring the query
// string. Returns fallback when the URL path carries no extension.
func URLExt(url, fallback string) string {
	path := url
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if ext := filepath.Ext(path); ext != "" {
		return ext
	}
	return fallback
}
