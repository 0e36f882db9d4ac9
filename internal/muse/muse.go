// Package muse collects postings from The Muse public jobs API.
package muse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobradar/internal/job"
	"jobradar/internal/keywords"
)

const (
	apiURL    = "https://www.themuse.com/api/public"
	userAgent = "jobradar (personal job-search pipeline)"
)

type Client struct {
	ctx        context.Context
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string
}

func New(ctx context.Context, logger *zap.Logger) *Client {
	return &Client{
		ctx:    ctx,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		APIURL:    apiURL,
		UserAgent: userAgent,
	}
}

type searchResponse struct {
	Results []museJob `json:"results"`
}

type museJob struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Contents        string `json:"contents"`
	PublicationDate string `json:"publication_date"`
	Locations       []struct {
		Name string `json:"name"`
	} `json:"locations"`
	Levels []struct {
		Name string `json:"name"`
	} `json:"levels"`
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
	Refs struct {
		LandingPage string `json:"landing_page"`
	} `json:"refs"`
}

// Search runs one configured query against the API and returns the
// normalized records. Items missing required fields are dropped, not
// patched; one bad item never aborts the batch.
func (c *Client) Search(q keywords.Query) ([]*job.Job, error) {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("descending", "true")

	// "Remote" does not filter well on this API, so it is left off and
	// recovered from the per-job location strings instead.
	if q.Location != "" && !strings.EqualFold(q.Location, "remote") {
		params.Set("location", q.Location)
	}

	lowered := strings.ToLower(q.Text)
	if strings.Contains(lowered, "software") || strings.Contains(lowered, "engineer") {
		params.Set("category", "Software Engineering")
	}

	var resp searchResponse
	if err := c.getJSON(c.APIURL+"/jobs", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", q.Text, err)
	}

	jobs := make([]*job.Job, 0, len(resp.Results))
	for _, item := range resp.Results {
		j := c.convert(item, q)
		if err := j.Validate(); err != nil {
			c.logger.Debug("dropping api job failing validation",
				zap.Int("id", item.ID),
				zap.Error(err),
			)
			continue
		}
		jobs = append(jobs, j)
	}

	jobs = job.Dedup(jobs)
	if q.Limit > 0 && len(jobs) > q.Limit {
		jobs = jobs[:q.Limit]
	}

	c.logger.Info("collected jobs from the muse api",
		zap.String("query", q.Text),
		zap.Int("jobs", len(jobs)),
	)

	return jobs, nil
}

func (c *Client) convert(item museJob, q keywords.Query) *job.Job {
	location := ""
	if len(item.Locations) > 0 {
		location = item.Locations[0].Name
	}

	level := ""
	if len(item.Levels) > 0 {
		level = item.Levels[0].Name
	}

	applyLink := item.Refs.LandingPage
	if applyLink == "" {
		applyLink = fmt.Sprintf("https://www.themuse.com/jobs/%d", item.ID)
	}

	j := &job.Job{
		Company:          item.Company.Name,
		Position:         item.Name,
		ApplyLink:        applyLink,
		Location:         location,
		Description:      item.Contents,
		ExperienceLevel:  level,
		PostedDate:       item.PublicationDate,
		DaysSincePosted:  daysSince(item.PublicationDate),
		RemoteOption:     job.DetectRemoteOption(location),
		Type:             job.InferType(item.Name, "themuse"),
		Source:           fmt.Sprintf("themuse/%d", item.ID),
		CollectionMethod: job.MethodAPI,
		Field:            deriveField(q.Text),
	}
	j.Normalize()

	return j
}

func (c *Client) getJSON(rawURL string, params url.Values, target any) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.URL.RawQuery = params.Encode()

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

// daysSince derives the posting age from the publication date; nil when
// the date cannot be parsed.
func daysSince(published string) *int {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, published); err == nil {
			days := int(time.Since(ts).Hours() / 24)
			if days < 0 {
				days = 0
			}
			return &days
		}
	}
	return nil
}

// deriveField tags the domain from the query text.
func deriveField(query string) string {
	query = strings.ToLower(query)
	switch {
	case strings.Contains(query, "machine learning"), strings.Contains(query, "artificial intelligence"),
		strings.Contains(query, " ai"), strings.HasPrefix(query, "ai"), strings.Contains(query, " ml"):
		return "AI/ML"
	case strings.Contains(query, "data"):
		return "Data Science"
	case strings.Contains(query, "software"), strings.Contains(query, "engineer"):
		return "Software Engineering"
	default:
		return ""
	}
}
