package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"metricsbridge/internal/domain"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

// cap on error bodies kept for messages
const maxErrorBody = 4 << 10

type ClientOptions struct {
	Timeout            time.Duration
	RateLimitPerSecond int
}

// httpClient is the transport shared by the Google API clients: a tuned
// http.Client, an optional OAuth2 token source and a rate limiter.
type httpClient struct {
	client      *http.Client
	api         string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	rateLimiter *rate.Limiter
}

func newHTTPClient(api string, ts oauth2.TokenSource, opts ClientOptions, logger *logger.Logger, metrics *metrics.Metrics) *httpClient {
	var transport http.RoundTripper = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if ts != nil {
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}

	perSecond := opts.RateLimitPerSecond
	if perSecond <= 0 {
		perSecond = 10
	}

	return &httpClient{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		api:         api,
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}
}

// googleError is the error envelope used by Google REST APIs
type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// postJSON sends payload to url and decodes a 200 response into out.
// Every failure wraps domain.ErrUpstream.
func (c *httpClient) postJSON(ctx context.Context, url string, headers map[string]string, payload, out any) error {
	start := time.Now()

	// Apply rate limiting
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure(c.api, "rate_limit")
		return fmt.Errorf("%w: rate limit wait: %v", domain.ErrUpstream, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.metrics.RecordExternalAPIFailure(c.api, "json_marshal")
		return fmt.Errorf("failed to marshal %s request: %w", c.api, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.metrics.RecordExternalAPIFailure(c.api, "request_creation")
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure(c.api, classifyTransportError(err))
		return fmt.Errorf("%w: %s request: %v", domain.ErrUpstream, c.api, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordExternalAPICall(c.api, fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return fmt.Errorf("%w: %s API returned status %d: %s", domain.ErrUpstream, c.api, resp.StatusCode, readErrorMessage(resp.Body))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordExternalAPIFailure(c.api, "read_body")
		return fmt.Errorf("%w: failed to read response body: %v", domain.ErrUpstream, err)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		c.metrics.RecordExternalAPIFailure(c.api, "json_parse")
		return fmt.Errorf("%w: failed to parse %s response: %v", domain.ErrUpstream, c.api, err)
	}

	c.metrics.RecordExternalAPICall(c.api, "success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"api":      c.api,
		"url":      url,
		"duration": duration,
	}).Debug("External API call succeeded")

	return nil
}

func readErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(body) == 0 {
		return "empty response body"
	}

	var gerr googleError
	if json.Unmarshal(body, &gerr) == nil && gerr.Error.Message != "" {
		if gerr.Error.Status != "" {
			return gerr.Error.Status + ": " + gerr.Error.Message
		}
		return gerr.Error.Message
	}
	return string(bytes.TrimSpace(body))
}

func classifyTransportError(err error) string {
	var retrieveErr *oauth2.RetrieveError
	switch {
	case errors.As(err, &retrieveErr):
		return "auth"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	return "network_error"
}
