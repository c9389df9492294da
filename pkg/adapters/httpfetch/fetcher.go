// Package httpfetch implements the network primitive behind the ajax verb
// over net/http.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher implements ports.Fetcher. The zero value is not usable; use New.
type Fetcher struct {
	client  *http.Client
	maxBody int64
}

type Option func(*Fetcher)

// WithClient replaces the underlying HTTP client.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout sets the per-request timeout. Defaults to 15 seconds.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// WithMaxBodySize caps the response body size in bytes. Defaults to 4 MiB.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) { f.maxBody = n }
}

// New creates a fetcher with sane defaults.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{Timeout: 15 * time.Second},
		maxBody: 4 << 20,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchText performs the request and returns the body as text. Any
// non-2xx status is an error; pipelines treat fetch failures as fatal.
func (f *Fetcher) FetchText(ctx context.Context, url, method string) (string, error) {
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(body), nil
}
