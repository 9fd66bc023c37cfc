package shops

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher issues the GET requests engines make against storefront pages.
// Some of the shops serve an error page to clients without a browser-looking
// user agent, so one is always sent.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher with the given user agent. An empty agent
// falls back to the plain browser token the shops tolerate.
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Get fetches a page and returns the status code with the full body. A non-2xx
// status is not an error here; engines classify 404 differently from
// transport failures.
func (f *Fetcher) Get(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read body of %s: %w", url, err)
	}
	return resp.StatusCode, string(body), nil
}
