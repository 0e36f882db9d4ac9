package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"jobradar/internal/firecrawl"
	"jobradar/internal/github"
	"jobradar/internal/job"
	"jobradar/internal/keywords"
	"jobradar/internal/muse"
	"jobradar/internal/secrets"
	"jobradar/internal/store"
	"jobradar/internal/utils"
)

// queryDelay paces consecutive search calls against the same API.
const queryDelay = time.Second

// saveCollected persists a non-empty batch into the first data
// directory and returns how many records were collected.
func saveCollected(jobs []*job.Job, cfg *Config, source string, logger *zap.Logger) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	path, err := store.New(logger).Save(jobs, cfg.DataDirs[0], source)
	if err != nil {
		return 0, fmt.Errorf("saving %s results: %w", source, err)
	}

	logger.Info("saved collected jobs",
		zap.String("source", source),
		zap.String("path", path),
		zap.Int("jobs", len(jobs)),
	)

	return len(jobs), nil
}

// collectMuse searches The Muse once per configured query. A failing
// query is logged and skipped.
func collectMuse(ctx context.Context, cfg *Config, logger *zap.Logger) (int, error) {
	client := muse.New(ctx, logger)
	queries := keywords.Load(cfg.KeywordsFile, logger)

	var jobs []*job.Job
	for i, q := range queries {
		if i > 0 {
			if err := utils.WaitFor(ctx, queryDelay); err != nil {
				return 0, err
			}
		}

		found, err := client.Search(q)
		if err != nil {
			logger.Warn("query failed",
				zap.String("query", q.Text),
				zap.Error(err),
			)
			continue
		}
		jobs = append(jobs, found...)
	}

	return saveCollected(job.Dedup(jobs), cfg, "themuse", logger)
}

// collectGithub discovers curated job lists and parses their markdown
// tables. The token is optional; without it the collector runs at the
// unauthenticated rate limits.
func collectGithub(ctx context.Context, cfg *Config, logger *zap.Logger) (int, error) {
	token := ""
	if cfg.Sources.Github.TokenFile != "" {
		loaded, err := secrets.Load(secrets.Source{
			Name: "github token",
			File: cfg.Sources.Github.TokenFile,
		})
		if err != nil {
			logger.Warn("proceeding without github token", zap.Error(err))
		} else {
			token = loaded
		}
	}

	client := github.New(ctx, logger, token)
	jobs := client.Collect(cfg.Sources.Github.CollectorConfig)

	return saveCollected(jobs, cfg, "github", logger)
}

// collectFirecrawl extracts postings from the configured job boards. The
// API key is required; a missing key disables the source.
func collectFirecrawl(ctx context.Context, cfg *Config, logger *zap.Logger) (int, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "firecrawl api key",
		File: cfg.Sources.Firecrawl.APIKeyFile,
	})
	if err != nil {
		return 0, fmt.Errorf("%w (set sources.firecrawl.api-key-file or FIRECRAWL_API_KEY_FILE)", err)
	}

	client := firecrawl.New(ctx, logger, apiKey)
	jobs := client.Scrape(cfg.Sources.Firecrawl.ScrapeConfig)

	return saveCollected(jobs, cfg, "firecrawl", logger)
}
