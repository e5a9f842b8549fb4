package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/desertthunder/faustok/internal/shared"
)

// HTTPFetcher implements [Fetcher] with a plain GET.
type HTTPFetcher struct {
	httpClient *http.Client
}

// NewHTTPFetcher creates a fetcher using client, or [http.DefaultClient] when nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{httpClient: client}
}

// Fetch streams directURL into destPath. A partially written file is left in place.
func (f *HTTPFetcher) Fetch(ctx context.Context, directURL, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, directURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", shared.ErrDownload, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: request failed: %v", shared.ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: status %d", shared.ErrDownload, resp.StatusCode)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create %s: %v", shared.ErrDownload, destPath, err)
	}

	n, err := io.Copy(file, resp.Body)
	if err != nil {
		file.Close()
		return n, fmt.Errorf("%w: failed to write %s: %v", shared.ErrDownload, destPath, err)
	}

	if err := file.Close(); err != nil {
		return n, fmt.Errorf("%w: failed to close %s: %v", shared.ErrDownload, destPath, err)
	}

	return n, nil
}
