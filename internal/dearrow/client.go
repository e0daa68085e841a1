package dearrow

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ipvych/elfeed-dearrow/internal/platform/observability"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultFetchRPS     = 2
)

// FetchResult is the single outcome of one branding lookup: either a
// transport failure (Err set) or a status code with the raw body.
// Non-200 statuses are not errors at this layer; the parser treats
// them as "no curated title".
type FetchResult struct {
	StatusCode int
	Body       []byte
	Err        error
}

// BrandingClient issues k-anonymous lookups against a DeArrow-compatible
// branding API. One GET per call, no retries; a client-side timeout and
// a process-wide rate limit are the only shaping applied.
type BrandingClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// BrandingClientConfig holds configuration for the branding client.
type BrandingClientConfig struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
}

// NewBrandingClient creates a client for the given API base URL.
func NewBrandingClient(cfg BrandingClientConfig) *BrandingClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultFetchRPS
	}

	return &BrandingClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Fetch starts a branding lookup for the video id and returns
// immediately. The result is delivered exactly once on the returned
// channel; there is no cancellation beyond the context and no retry.
func (c *BrandingClient) Fetch(ctx context.Context, videoID string) <-chan FetchResult {
	ch := make(chan FetchResult, 1)

	go func() {
		ch <- c.fetch(ctx, videoID)
	}()

	return ch
}

func (c *BrandingClient) fetch(ctx context.Context, videoID string) FetchResult {
	if err := c.limiter.Wait(ctx); err != nil {
		return FetchResult{Err: fmt.Errorf("branding rate wait: %w", err)}
	}

	lookupURL := BrandingURL(c.baseURL, HashPrefix(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return FetchResult{Err: fmt.Errorf("create branding request: %w", err)}
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.BrandingRequests.WithLabelValues("transport_error").Inc()
		return FetchResult{Err: fmt.Errorf("branding request: %w", err)}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	observability.BrandingRequestDuration.Observe(time.Since(start).Seconds())
	observability.BrandingRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{Err: fmt.Errorf("read branding response: %w", err)}
	}

	return FetchResult{StatusCode: resp.StatusCode, Body: body}
}
