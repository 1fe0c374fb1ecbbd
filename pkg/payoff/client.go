// Package payoff provides a client for the payoff computation service,
// which quotes the amount needed to settle a contract, keyed by
// FSAccountID.
package payoff

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/contract-hub/internal/model"
	"github.com/sells-group/contract-hub/internal/resilience"
)

// Client defines the payoff service operations.
type Client interface {
	// Calculate computes the payoff quote for the contract. The service
	// reports its own computation failures through the quote's embedded
	// error flag rather than an HTTP error.
	Calculate(ctx context.Context, fsAccountID string, refresh bool) (*model.Payoff, error)
}

// Option configures the payoff client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a payoff service client. Payoff computation walks the
// full amortization schedule server-side, hence the generous timeout.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(50), 100),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Calculate(ctx context.Context, fsAccountID string, refresh bool) (*model.Payoff, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "payoff: rate limit wait")
	}

	reqURL := fmt.Sprintf("%s/v1/payoff/%s", c.baseURL, url.PathEscape(fsAccountID))
	if refresh {
		reqURL += "?refresh=true"
	}

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "payoff: create request")
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "payoff: request failed")
		}
		defer resp.Body.Close() //nolint:errcheck

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "payoff: read response body")
		}
		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("payoff: unexpected status %d: %s", resp.StatusCode, string(payload))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, &resilience.TransientError{Err: err, StatusCode: resp.StatusCode}
			}
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}

	var quote model.Payoff
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, eris.Wrap(err, "payoff: unmarshal response")
	}
	if quote.FSAccountID == "" {
		quote.FSAccountID = fsAccountID
	}
	return &quote, nil
}
