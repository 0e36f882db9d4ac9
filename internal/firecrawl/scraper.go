package firecrawl

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"jobradar/internal/job"
)

const (
	maxTextLen   = 200
	maxSalaryLen = 100

	extractPrompt = `Extract all job postings from this page. For each job, extract:
- company: The company name
- position: The job title/position
- location: Where the job is located
- salary: Salary information (if available)
- url: The application or job posting URL

Return a JSON object with a "jobs" array containing these job objects.`
)

// jobSchema is the extraction schema shared by every site.
var jobSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"jobs": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"company":  map[string]any{"type": "string"},
					"position": map[string]any{"type": "string"},
					"location": map[string]any{"type": "string"},
					"salary":   map[string]any{"type": "string"},
					"url":      map[string]any{"type": "string"},
				},
			},
		},
	},
}

// site is a job board reachable through extraction. PageURL builds the
// listing page for a search query; sites with a fixed listing page
// ignore the query and are visited once per run.
type site struct {
	Name        string
	CompanyType string
	PerQuery    bool
	PageURL     func(query string) string
}

var sites = []site{
	{
		Name:     "JobRight.ai (Firecrawl)",
		PerQuery: true,
		PageURL: func(query string) string {
			return "https://www.jobright.ai/jobs?q=" + strings.ReplaceAll(query, " ", "+")
		},
	},
	{
		Name: "Simplify.jobs (Firecrawl)",
		PageURL: func(string) string {
			return "https://simplify.jobs/l/New-Grad-Data-Science-AI-ML"
		},
	},
	{
		Name:        "Wellfound (Firecrawl)",
		CompanyType: "startup",
		PerQuery:    true,
		PageURL: func(query string) string {
			return "https://wellfound.com/jobs?search=" + url.QueryEscape(query)
		},
	},
}

type extractedJob struct {
	Company  string `json:"company"`
	Position string `json:"position"`
	Location string `json:"location"`
	Salary   string `json:"salary"`
	URL      string `json:"url"`
}

type extractedPage struct {
	Jobs []extractedJob `json:"jobs"`
}

// ScrapeConfig controls which pages are visited.
type ScrapeConfig struct {
	Queries []string `mapstructure:"queries"`
	MaxJobs int      `mapstructure:"max-jobs"`
}

// Scrape extracts postings from every configured site and query. A
// failing page is logged and skipped. When the account is out of
// credits the whole source is skipped.
func (c *Client) Scrape(cfg ScrapeConfig) []*job.Job {
	queries := cfg.Queries
	if len(queries) == 0 {
		queries = []string{"machine learning new grad"}
	}
	maxJobs := cfg.MaxJobs
	if maxJobs <= 0 {
		maxJobs = 30
	}

	var jobs []*job.Job
	for _, s := range sites {
		siteQueries := queries
		if !s.PerQuery {
			siteQueries = queries[:1]
		}

		for _, query := range siteQueries {
			pageURL := s.PageURL(query)

			found, err := c.scrapePage(s, pageURL, maxJobs)
			if err != nil {
				if errors.Is(err, ErrInsufficientCredits) {
					c.logger.Warn("firecrawl credits exhausted, skipping remaining pages")
					return job.Dedup(jobs)
				}
				c.logger.Warn("skipping page",
					zap.String("site", s.Name),
					zap.String("url", pageURL),
					zap.Error(err),
				)
				continue
			}

			c.logger.Debug("extracted page",
				zap.String("site", s.Name),
				zap.Int("jobs", len(found)),
			)
			jobs = append(jobs, found...)
		}
	}

	jobs = job.Dedup(jobs)

	c.logger.Info("collected jobs via extraction", zap.Int("jobs", len(jobs)))

	return jobs
}

func (c *Client) scrapePage(s site, pageURL string, maxJobs int) ([]*job.Job, error) {
	data, err := c.Extract(pageURL, extractPrompt, jobSchema)
	if err != nil {
		return nil, err
	}

	var page extractedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decode extraction result: %w", err)
	}

	var jobs []*job.Job
	for _, item := range page.Jobs {
		if len(jobs) >= maxJobs {
			break
		}

		location := truncate(item.Location, maxTextLen)

		record := &job.Job{
			Company:          truncate(item.Company, maxTextLen),
			Position:         truncate(item.Position, maxTextLen),
			ApplyLink:        item.URL,
			Location:         location,
			Salary:           truncate(item.Salary, maxSalaryLen),
			Type:             job.TypeNewGrad,
			RemoteOption:     job.DetectRemoteOption(location),
			Source:           s.Name,
			CollectionMethod: job.MethodWebScraping,
			Field:            "AI/ML",
			CompanyType:      s.CompanyType,
		}
		record.Normalize()

		if err := record.Validate(); err != nil {
			c.logger.Debug("dropping extracted item",
				zap.String("company", item.Company),
				zap.String("position", item.Position),
				zap.Error(err),
			)
			continue
		}

		jobs = append(jobs, record)
	}

	return jobs, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
