// Package fetch downloads the map extract when it is not present locally.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"cycle_router/pkg/logger"
)

// ErrFetch is returned when the download does not complete.
var ErrFetch = errors.New("fetch failed")

const userAgent = "cycle_router/1.0"

// Download GETs url into path. The body is streamed into a temp file next to
// path and renamed into place only after the copy succeeds, so path is either
// absent or complete. There is no retry.
func Download(ctx context.Context, client *http.Client, url, path string) error {
	log := logger.Get()
	if client == nil {
		client = http.DefaultClient
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: create directory: %w", ErrFetch, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	log.Info("Downloading map extract", zap.String("url", url), zap.String("path", path))
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code: %d", ErrFetch, resp.StatusCode)
	}

	tmpPath := path + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrFetch, err)
	}

	n, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write %s: %w", ErrFetch, tmpPath, err)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: short body: got %d of %d bytes", ErrFetch, n, resp.ContentLength)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename: %w", ErrFetch, err)
	}

	log.Info("Download complete",
		zap.Int64("bytes", n),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)
	return nil
}
