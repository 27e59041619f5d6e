// Package royale is a client for the official game API. Requests are rate
// limited and retried with exponential backoff; responses are converted into
// the engine's own record types at the boundary.
package royale

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/crlabs/royale-retention/pkg/model"
)

const (
	defaultBaseURL = "https://api.clashroyale.com/v1"
	requestTimeout = 30 * time.Second
	// The API allows bursts well above this, but 10 req/s keeps a
	// collection run comfortably under the account quota.
	rateLimitInterval = 100 * time.Millisecond
	maxRetries        = 3
	// battleLogLimit is the maximum battles the API returns per call.
	battleLogLimit = 25
)

// Client is a rate-limited, retrying API client. It implements the
// retention analyzer's RecordSource.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client authenticated with the given API token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Every(rateLimitInterval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Player fetches the player's profile snapshot.
func (c *Client) Player(ctx context.Context, tag string) (model.PlayerStats, error) {
	var resp playerResponse
	path := fmt.Sprintf("/players/%s", encodeTag(tag))
	if err := c.get(ctx, path, &resp); err != nil {
		return model.PlayerStats{}, fmt.Errorf("failed to get player %s: %w", tag, err)
	}
	return resp.toStats(), nil
}

// BattleLog fetches the player's recent battles as match records, in the
// order the API returns them (newest first).
func (c *Client) BattleLog(ctx context.Context, tag string) ([]model.MatchRecord, error) {
	var battles []battleResponse
	path := fmt.Sprintf("/players/%s/battlelog", encodeTag(tag))
	if err := c.get(ctx, path, &battles); err != nil {
		return nil, fmt.Errorf("failed to get battle log for %s: %w", tag, err)
	}

	if len(battles) > battleLogLimit {
		battles = battles[:battleLogLimit]
	}
	records := make([]model.MatchRecord, 0, len(battles))
	for _, battle := range battles {
		record, err := battle.toRecord()
		if err != nil {
			logrus.Warnf("skipping malformed battle for %s: %v", tag, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// get performs a GET request with rate limiting and retries. 429 and 5xx
// responses are retried with exponential backoff; other non-200 statuses
// fail immediately.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			logrus.Warnf("API request %s returned status %d, retrying", path, resp.StatusCode)
			return fmt.Errorf("status %d from %s", resp.StatusCode, path)
		default:
			return backoff.Permanent(fmt.Errorf("status %d from %s", resp.StatusCode, path))
		}
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	return backoff.Retry(operation, b)
}

// encodeTag normalizes a player tag to its canonical #-prefixed form and
// escapes it for use in a URL path.
func encodeTag(tag string) string {
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return url.PathEscape(tag)
}
