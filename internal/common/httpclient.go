package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrHTTPStatus = errors.New("unexpected HTTP status")

const DefaultHTTPTimeout = 10 * time.Second

// FeedClient wraps an http.Client and records per-endpoint metrics for every
// upstream request. Endpoint is a low-cardinality label, never the raw URL.
type FeedClient struct {
	Client  *http.Client
	Metrics *Metrics
}

func NewFeedClient(timeout time.Duration, metrics *Metrics) *FeedClient {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &FeedClient{
		Client:  &http.Client{Timeout: timeout},
		Metrics: metrics,
	}
}

func (feedClient *FeedClient) httpClient() *http.Client {
	if feedClient == nil || feedClient.Client == nil {
		return http.DefaultClient
	}
	return feedClient.Client
}

func (feedClient *FeedClient) metrics() *Metrics {
	if feedClient == nil {
		return nil
	}
	return feedClient.Metrics
}

func (feedClient *FeedClient) Get(ctx context.Context, endpoint string, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := feedClient.httpClient().Do(req)
	if err != nil {
		feedClient.metrics().IncError(endpoint)
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	feedClient.metrics().ObserveTTFB(endpoint, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		feedClient.metrics().IncError(endpoint)
		return nil, fmt.Errorf("GET %s: %w: %d", endpoint, ErrHTTPStatus, resp.StatusCode)
	}

	readStart := time.Now()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		feedClient.metrics().IncError(endpoint)
		return nil, fmt.Errorf("GET %s: read body: %w", endpoint, err)
	}
	feedClient.metrics().ObserveBody(endpoint, time.Since(readStart), len(body))

	return body, nil
}

// Head follows redirects and returns the final response headers.
func (feedClient *FeedClient) Head(ctx context.Context, endpoint string, url string) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := feedClient.httpClient().Do(req)
	if err != nil {
		feedClient.metrics().IncError(endpoint)
		return nil, fmt.Errorf("HEAD %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		feedClient.metrics().IncError(endpoint)
		return nil, fmt.Errorf("HEAD %s: %w: %d", endpoint, ErrHTTPStatus, resp.StatusCode)
	}

	return resp.Header, nil
}

// Download streams a GET response body into w.
func (feedClient *FeedClient) Download(ctx context.Context, endpoint string, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	resp, err := feedClient.httpClient().Do(req)
	if err != nil {
		feedClient.metrics().IncError(endpoint)
		return 0, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	feedClient.metrics().ObserveTTFB(endpoint, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		feedClient.metrics().IncError(endpoint)
		return 0, fmt.Errorf("GET %s: %w: %d", endpoint, ErrHTTPStatus, resp.StatusCode)
	}

	readStart := time.Now()
	written, err := io.Copy(w, resp.Body)
	if err != nil {
		feedClient.metrics().IncError(endpoint)
		return written, fmt.Errorf("GET %s: write body: %w", endpoint, err)
	}
	feedClient.metrics().ObserveBody(endpoint, time.Since(readStart), int(written))

	return written, nil
}
