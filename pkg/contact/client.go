// Package contact provides a client for the contact identity service,
// which resolves a portal session to a customer and their financial
// products.
package contact

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

// Client defines the contact service operations.
type Client interface {
	// GetBySession resolves the session to its contact. refresh forces the
	// backend to bypass its own caches.
	GetBySession(ctx context.Context, sess model.Session, refresh bool) (*model.ContactInfo, error)
}

// Option configures the contact client.
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

// NewClient creates a contact service client.
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
		limiter: rate.NewLimiter(rate.Limit(20), 40),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) GetBySession(ctx context.Context, sess model.Session, refresh bool) (*model.ContactInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "contact: rate limit wait")
	}

	q := url.Values{}
	q.Set("gcid", sess.GCID)
	q.Set("client_id", sess.ClientID)
	if refresh {
		q.Set("refresh", "true")
	}
	reqURL := fmt.Sprintf("%s/v1/contacts/by-session?%s", c.baseURL, q.Encode())

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "contact: create request")
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "contact: request failed")
		}
		defer resp.Body.Close() //nolint:errcheck

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "contact: read response body")
		}
		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("contact: unexpected status %d: %s", resp.StatusCode, string(payload))
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

	var info model.ContactInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, eris.Wrap(err, "contact: unmarshal response")
	}
	return &info, nil
}
