// Package fetch acquires raw log text by day/file key: an HTTP
// fetcher for remote archives, a file fetcher for local ones, a
// concurrent multi-day range fetcher and a TTL'd text cache.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// MaxTextSize bounds a single fetched day of log text (32 MB).
const MaxTextSize = 32 * 1024 * 1024

// Fetcher returns the full raw text for a day/file key.
// Implementations return an error on failure; the engine treats any
// failure as empty content for that key and keeps going.
type Fetcher interface {
	FetchText(ctx context.Context, key string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, key string) (string, error)

// FetchText implements Fetcher.
func (f FetcherFunc) FetchText(ctx context.Context, key string) (string, error) {
	return f(ctx, key)
}

// HTTPFetcher fetches log text from baseURL/<key>.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher creates an HTTP fetcher. A nil client uses
// http.DefaultClient; no request timeout is imposed beyond the
// caller's context, so a slow fetch simply delays the next poll.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{BaseURL: baseURL, Client: client}
}

// FetchText implements Fetcher.
func (h *HTTPFetcher) FetchText(ctx context.Context, key string) (string, error) {
	u, err := url.JoinPath(h.BaseURL, key)
	if err != nil {
		return "", fmt.Errorf("building url for key %q: %w", key, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %q: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %q: unexpected status %s", key, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxTextSize))
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", key, err)
	}
	return string(data), nil
}

// FileFetcher reads log text from files under a base directory.
// Keys must be plain file names; path traversal is rejected.
type FileFetcher struct {
	Dir string
}

// FetchText implements Fetcher.
func (f *FileFetcher) FetchText(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if filepath.Base(key) != key {
		return "", fmt.Errorf("invalid key %q", key)
	}
	data, err := os.ReadFile(filepath.Join(f.Dir, key))
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", key, err)
	}
	if len(data) > MaxTextSize {
		return "", fmt.Errorf("file %q too large (max %d bytes)", key, MaxTextSize)
	}
	return string(data), nil
}
