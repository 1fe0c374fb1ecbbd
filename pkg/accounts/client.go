// Package accounts provides a client for the contract accounts service,
// the authoritative source for per-contract balances and due dates.
package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/contract-hub/internal/model"
	"github.com/sells-group/contract-hub/internal/resilience"
)

// Client defines the accounts service operations.
type Client interface {
	// FindAccounts fetches the contract details for the given account
	// numbers. The service returns only accounts it knows; the result may
	// be shorter than the request.
	FindAccounts(ctx context.Context, customerNumber int64, accountNumbers []string, refresh bool) ([]model.ContractAccountDetail, error)
}

// findRequest is the search payload sent to the accounts service.
type findRequest struct {
	CustomerNumber int64    `json:"customerNumber"`
	AccountNumbers []string `json:"accountNumbers"`
	Refresh        bool     `json:"refresh,omitempty"`
}

// findResponse wraps the service's account list.
type findResponse struct {
	Accounts []model.ContractAccountDetail `json:"accounts"`
}

// Option configures the accounts client.
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

// NewClient creates an accounts service client.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(20), 40),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) FindAccounts(ctx context.Context, customerNumber int64, accountNumbers []string, refresh bool) ([]model.ContractAccountDetail, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "accounts: rate limit wait")
	}

	payload, err := json.Marshal(findRequest{
		CustomerNumber: customerNumber,
		AccountNumbers: accountNumbers,
		Refresh:        refresh,
	})
	if err != nil {
		return nil, eris.Wrap(err, "accounts: marshal request")
	}

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/v1/accounts/search", bytes.NewReader(payload))
		if err != nil {
			return nil, eris.Wrap(err, "accounts: create request")
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "accounts: request failed")
		}
		defer resp.Body.Close() //nolint:errcheck

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "accounts: read response body")
		}
		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("accounts: unexpected status %d: %s", resp.StatusCode, string(respBody))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, &resilience.TransientError{Err: err, StatusCode: resp.StatusCode}
			}
			return nil, err
		}
		return respBody, nil
	})
	if err != nil {
		return nil, err
	}

	var result findResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "accounts: unmarshal response")
	}
	return result.Accounts, nil
}
