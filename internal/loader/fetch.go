package loader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher performs an HTTP GET and returns the response body.
// A non-success status must be reported as an error wrapping ErrFetchFailure.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// userAgent identifies remote requests.
const userAgent = "go-htmlinline/1"

// HTTPFetcher fetches remote resources with resty.
// Retries are disabled: a failed request fails the run.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher wraps client, or a fresh resty client if nil.
// A positive timeout bounds each request; zero leaves the client's setting.
func NewHTTPFetcher(client *resty.Client, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = resty.New().
			SetRetryCount(0).
			SetHeader("User-Agent", userAgent)
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPFetcher{client: client}
}

// Fetch GETs url. The response body is returned only for 2xx statuses.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailure, url, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetchFailure, url, statusText(resp))
	}
	return resp.Body(), nil
}

// statusText returns the reason phrase for the response status.
func statusText(resp *resty.Response) string {
	if text := http.StatusText(resp.StatusCode()); text != "" {
		return text
	}
	return resp.Status()
}

// Compile-time interface check.
var _ Fetcher = (*HTTPFetcher)(nil)
