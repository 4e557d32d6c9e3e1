package stats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single lookup when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Cap on how much of a response body we read; stat pages are small.
const maxBodyBytes = 2 << 20

// HTTPDoer is the subset of *http.Client used by the sources.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResolveHTTPClient returns client, or a default client bounded by timeout.
func ResolveHTTPClient(client *http.Client, timeout time.Duration) HTTPDoer {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NormalizeBaseURL trims a trailing slash and falls back to def when raw is empty.
func NormalizeBaseURL(raw, def string) string {
	if raw == "" {
		raw = def
	}
	return strings.TrimSuffix(raw, "/")
}

// GetBody performs a GET and returns the response body as text.
// Non-2xx answers become *StatusError.
func GetBody(ctx context.Context, doer HTTPDoer, source, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", source, err)
	}
	resp, err := doer.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &StatusError{
			Source:     source,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", source, err)
	}
	return string(body), nil
}

func parseRetryAfter(raw string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
