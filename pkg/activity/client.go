// Package activity provides a client for the customer-activity journal.
// Activities are advisory records (logins, completed legitimations); the
// pipeline treats journal failures as non-fatal.
package activity

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

// Type identifies a journaled activity.
type Type string

const (
	TypeLegitimationCompleted Type = "LegitimationCompleted"
	TypeAccountLogin          Type = "AccountLogin"
)

// Entry is one activity record.
type Entry struct {
	Type           Type     `json:"type"`
	GCID           string   `json:"gcid"`
	ClientID       string   `json:"clientId"`
	CustomerNumber int64    `json:"customerNumber,omitempty"`
	AccountNumbers []string `json:"accountNumbers,omitempty"`
	Detail         string   `json:"detail,omitempty"`
}

// Client defines the activity journal operations.
type Client interface {
	// Log records an activity entry.
	Log(ctx context.Context, entry Entry) error
}

// Option configures the activity client.
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

// NewClient creates an activity journal client.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 5 * time.Second,
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

// NewEntry builds an entry for the session.
func NewEntry(typ Type, sess model.Session) Entry {
	return Entry{Type: typ, GCID: sess.GCID, ClientID: sess.ClientID}
}

func (c *httpClient) Log(ctx context.Context, entry Entry) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "activity: rate limit wait")
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return eris.Wrap(err, "activity: marshal entry")
	}

	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/v1/activities", bytes.NewReader(payload))
		if err != nil {
			return eris.Wrap(err, "activity: create request")
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return eris.Wrap(err, "activity: request failed")
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "activity: read response body")
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated &&
			resp.StatusCode != http.StatusAccepted {
			err := eris.Errorf("activity: unexpected status %d: %s", resp.StatusCode, string(body))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return &resilience.TransientError{Err: err, StatusCode: resp.StatusCode}
			}
			return err
		}
		return nil
	})
}
