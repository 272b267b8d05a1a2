package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"campaign-studio-backend/internal/models"
)

// StorageDownloader resolves files that live in our own storage bucket.
type StorageDownloader interface {
	PathFromPublicURL(publicURL string) (string, bool)
	DownloadFile(storagePath string) ([]byte, error)
}

// HTTPFileFetcher downloads stored PDFs. Every failure wraps ErrFileUnavailable.
type HTTPFileFetcher struct {
	httpClient *http.Client
	storage    StorageDownloader
	maxBytes   int64
}

func NewHTTPFileFetcher(storage StorageDownloader, maxBytes int64) *HTTPFileFetcher {
	return &HTTPFileFetcher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		storage:  storage,
		maxBytes: maxBytes,
	}
}

func (f *HTTPFileFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.storage != nil {
		if path, ok := f.storage.PathFromPublicURL(url); ok {
			data, err := f.storage.DownloadFile(path)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", models.ErrFileUnavailable, err)
			}
			return f.check(data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", models.ErrFileUnavailable, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", models.ErrFileUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", models.ErrFileUnavailable, resp.StatusCode)
	}

	reader := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", models.ErrFileUnavailable, err)
	}

	return f.check(data)
}

func (f *HTTPFileFetcher) check(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", models.ErrFileUnavailable)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", models.ErrFileUnavailable, f.maxBytes)
	}
	return data, nil
}
