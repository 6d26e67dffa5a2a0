package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"storyshelf/internal/core/domain/ports"
	"time"
)

var _ ports.FeedFetcher = (*HTTPFetcher)(nil)

const feedAccept = "application/atom+xml;profile=opds-catalog, application/atom+xml, application/xml;q=0.9, */*;q=0.5"

// HTTPFetcher fetches feed documents over HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Transport: &LoggingTransport{},
			Timeout:   timeout,
		},
		userAgent: userAgent,
	}
}

// NewHTTPFetcherWithClient wraps an existing client, e.g. one from httptest.
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch returns the response body for a 2xx response. The caller closes it.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", feedAccept)
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch OPDS feed from %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, fmt.Errorf("OPDS feed %s returned status: %d", url, resp.StatusCode)
	}

	return resp.Body, nil
}
