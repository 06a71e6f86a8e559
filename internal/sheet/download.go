package sheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/natefinch/atomic"
)

// DefaultExportURL is the CSV export of the shared dunders spreadsheet.
const DefaultExportURL = "https://docs.google.com/spreadsheets/d/" +
	"1-45UeKKMCePmTDLptT2zpI4L-jikmsCnve_lwOMyeuY/export?format=csv"

// Download settings.
const (
	DownloadTimeout   = 30 * time.Second
	maxDownloadSize   = 10 * 1024 * 1024
	maxDownloadWindow = 30 * time.Second
)

// Downloader fetches the spreadsheet export.
type Downloader struct {
	URL        string
	HTTPClient *http.Client

	// Backoff overrides the retry policy; nil uses a bounded exponential backoff.
	Backoff func() backoff.BackOff
}

// NewDownloader creates a downloader for the given export URL.
func NewDownloader(url string) *Downloader {
	return &Downloader{
		URL:        url,
		HTTPClient: &http.Client{Timeout: DownloadTimeout},
	}
}

func newDownloadBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = maxDownloadWindow
	return bo
}

// Fetch returns the export body. Network errors and 5xx responses are
// retried; other non-2xx responses fail immediately.
func (d *Downloader) Fetch(ctx context.Context) ([]byte, error) {
	bo := d.Backoff
	if bo == nil {
		bo = newDownloadBackoff
	}

	var body []byte
	err := backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		resp, err := d.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("sheet export error (status %d)", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("sheet export error (status %d)", resp.StatusCode))
		}
		body = data
		return nil
	}, backoff.WithContext(bo(), ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to download sheet: %w", err)
	}
	return body, nil
}

// DownloadTo fetches the export and atomically replaces the file at path.
func (d *Downloader) DownloadTo(ctx context.Context, path string) error {
	body, err := d.Fetch(ctx)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("failed to write sheet: %w", err)
	}
	return nil
}
