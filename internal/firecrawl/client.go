// Package firecrawl collects postings from job boards through the
// Firecrawl structured-extraction API.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"jobradar/internal/utils"
)

const (
	apiURL    = "https://api.firecrawl.dev/v2"
	userAgent = "jobradar (personal job-search pipeline)"

	pollInterval = 2 * time.Second
	pollTimeout  = 90 * time.Second
)

// ErrInsufficientCredits marks an account that ran out of extraction
// credits. Callers treat it as "source unavailable", not as a failure.
var ErrInsufficientCredits = fmt.Errorf("firecrawl: insufficient credits")

type Client struct {
	ctx        context.Context
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string

	// Poll pacing for the async extract endpoint. Tests shrink these.
	PollInterval time.Duration
	PollTimeout  time.Duration
}

func New(ctx context.Context, logger *zap.Logger, apiKey string) *Client {
	return &Client{
		ctx:    ctx,
		apiKey: apiKey,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		APIURL:       apiURL,
		UserAgent:    userAgent,
		PollInterval: pollInterval,
		PollTimeout:  pollTimeout,
	}
}

type extractRequest struct {
	URLs   []string       `json:"urls"`
	Prompt string         `json:"prompt"`
	Schema map[string]any `json:"schema"`
}

type extractResponse struct {
	Success bool            `json:"success"`
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Extract submits an extraction job for the page and polls it to
// completion, returning the raw structured payload.
func (c *Client) Extract(pageURL, prompt string, schema map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(extractRequest{
		URLs:   []string{pageURL},
		Prompt: prompt,
		Schema: schema,
	})
	if err != nil {
		return nil, err
	}

	var submitted extractResponse
	if err := c.do(http.MethodPost, c.APIURL+"/extract", bytes.NewReader(body), &submitted); err != nil {
		return nil, err
	}

	// Some deployments answer synchronously.
	if len(submitted.Data) > 0 {
		return submitted.Data, nil
	}
	if submitted.ID == "" {
		return nil, fmt.Errorf("extract request not accepted: %s", submitted.Error)
	}

	deadline := time.Now().Add(c.PollTimeout)
	for {
		if err := utils.WaitFor(c.ctx, c.PollInterval); err != nil {
			return nil, err
		}

		var status extractResponse
		if err := c.do(http.MethodGet, c.APIURL+"/extract/"+submitted.ID, nil, &status); err != nil {
			return nil, err
		}

		switch status.Status {
		case "completed":
			return status.Data, nil
		case "failed", "cancelled":
			return nil, fmt.Errorf("extract %s: %s", status.Status, status.Error)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("extract timed out after %s", c.PollTimeout)
		}
	}
}

func (c *Client) do(method, rawURL string, body io.Reader, target *extractResponse) error {
	req, err := http.NewRequestWithContext(c.ctx, method, rawURL, body)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("make request", zap.String("url", rawURL))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusPaymentRequired {
		return ErrInsufficientCredits
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	return json.Unmarshal(data, target)
}
