// Package github discovers curated job-list repositories and collects
// postings from their markdown tables.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiURL    = "https://api.github.com"
	userAgent = "jobradar (personal job-search pipeline)"
)

type Client struct {
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string

	// Courtesy limit for the search API, which throttles
	// unauthenticated callers aggressively.
	limiter *rate.Limiter
}

// New creates a client. token may be empty; unauthenticated requests
// work at lower rate limits.
func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		APIURL:    apiURL,
		UserAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (c *Client) getJSON(rawURL string, params url.Values, target any) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.UserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("token %s", c.token))
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	return json.Unmarshal(data, target)
}

// fetchRaw downloads file content from a raw download URL.
func (c *Client) fetchRaw(rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
