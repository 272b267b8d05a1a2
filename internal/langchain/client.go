// Package langchain is a client for the delegated PDF question-answering service.
package langchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	backoffs   []time.Duration
}

type ProcessRequest struct {
	PdfURL   string `json:"pdfUrl"`
	PdfName  string `json:"pdfName"`
	PdfType  string `json:"pdfType"`
	UserID   string `json:"userId"`
	Question string `json:"question,omitempty"`
}

type ProcessResponse struct {
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources"`
	ProcessingTime float64  `json:"processingTime"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoffs: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// WithBackoffs overrides the retry delays; tests use zero delays.
func (c *Client) WithBackoffs(backoffs ...time.Duration) *Client {
	c.backoffs = backoffs
	return c
}

func (c *Client) ProcessPDF(ctx context.Context, in ProcessRequest) (*ProcessResponse, error) {
	jsonData, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process-pdf", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result ProcessResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	return &result, nil
}

// StatusError is a non-200 answer from the service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to process pdf: status %d, body: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// RetryWithBackoff executes a function with exponential backoff retry logic.
// Client errors (4xx other than 429) are returned immediately.
func (c *Client) RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if se, ok := err.(*StatusError); ok && !se.Retryable() {
			return err
		}
		if i == maxRetries-1 {
			break
		}
		if i < len(c.backoffs) {
			select {
			case <-time.After(c.backoffs[i]):
			case <-ctx.Done():
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
