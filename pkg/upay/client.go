// Package upay provides a client for the upcoming-payments service, which
// returns at most one scheduled payment per account.
package upay

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

// Client defines the upcoming-payments service operations.
type Client interface {
	// FindUpcoming returns the next scheduled payment for the account, or
	// nil when the account has nothing scheduled.
	FindUpcoming(ctx context.Context, accountNumber string, refresh bool) (*model.ScheduledItem, error)
}

// Option configures the upay client.
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

// NewClient creates an upcoming-payments client.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
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

func (c *httpClient) FindUpcoming(ctx context.Context, accountNumber string, refresh bool) (*model.ScheduledItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "upay: rate limit wait")
	}

	reqURL := fmt.Sprintf("%s/v1/payments/upcoming/%s", c.baseURL, url.PathEscape(accountNumber))
	if refresh {
		reqURL += "?refresh=true"
	}

	type lookup struct {
		item  *model.ScheduledItem
		found bool
	}

	res, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (lookup, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return lookup{}, eris.Wrap(err, "upay: create request")
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return lookup{}, eris.Wrap(err, "upay: request failed")
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return lookup{}, eris.Wrap(err, "upay: read response body")
		}

		// Accounts with no scheduled payment are a normal outcome.
		if resp.StatusCode == http.StatusNotFound {
			return lookup{}, nil
		}
		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("upay: unexpected status %d: %s", resp.StatusCode, string(body))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return lookup{}, &resilience.TransientError{Err: err, StatusCode: resp.StatusCode}
			}
			return lookup{}, err
		}

		var item model.ScheduledItem
		if err := json.Unmarshal(body, &item); err != nil {
			return lookup{}, eris.Wrap(err, "upay: unmarshal response")
		}
		return lookup{item: &item, found: true}, nil
	})
	if err != nil {
		return nil, err
	}
	if !res.found {
		return nil, nil
	}
	return res.item, nil
}
