package github

import (
	"go.uber.org/zap"

	"jobradar/internal/job"
	"jobradar/internal/markdown"
)

// Source is a statically configured job file, used as a fallback when
// discovery finds nothing (or is disabled).
type Source struct {
	Owner       string `mapstructure:"owner"`
	Repo        string `mapstructure:"repo"`
	FileName    string `mapstructure:"file-name"`
	DownloadURL string `mapstructure:"download-url"`
}

// CollectorConfig controls discovery and parsing.
type CollectorConfig struct {
	Keywords          []string `mapstructure:"keywords"`
	MinStars          int      `mapstructure:"min-stars"`
	UpdatedWithinDays int      `mapstructure:"updated-within-days"`
	Field             string   `mapstructure:"field"`
	Fallback          []Source `mapstructure:"fallback"`
}

// Collect discovers job-list repositories, fetches their markdown job
// files and parses them into records. A failing file or repository is
// logged and skipped; the result is whatever subset succeeded.
func (c *Client) Collect(cfg CollectorConfig) []*job.Job {
	minStars := cfg.MinStars
	if minStars <= 0 {
		minStars = 50
	}
	withinDays := cfg.UpdatedWithinDays
	if withinDays <= 0 {
		withinDays = 30
	}

	var files []*JobFile

	repos := c.SearchRepositories(cfg.Keywords, minStars, withinDays)
	for _, repo := range repos {
		found, err := c.FindJobFiles(repo)
		if err != nil {
			c.logger.Warn("skipping repository",
				zap.String("repo", repo.FullName),
				zap.Error(err),
			)
			continue
		}
		files = append(files, found...)
	}

	if len(files) == 0 && len(cfg.Fallback) > 0 {
		c.logger.Info("discovery found no job files, using configured fallback sources",
			zap.Int("sources", len(cfg.Fallback)),
		)
		for _, src := range cfg.Fallback {
			files = append(files, &JobFile{
				Repo:        &Repo{Owner: src.Owner, Name: src.Repo, FullName: src.Owner + "/" + src.Repo},
				Name:        src.FileName,
				DownloadURL: src.DownloadURL,
			})
		}
	}

	var jobs []*job.Job
	for _, file := range files {
		content, err := c.fetchRaw(file.DownloadURL)
		if err != nil {
			c.logger.Warn("skipping job file",
				zap.String("repo", file.Repo.FullName),
				zap.String("file", file.Name),
				zap.Error(err),
			)
			continue
		}

		parsed := markdown.Parse(content, file.Repo.FullName, cfg.Field, c.logger)
		jobs = append(jobs, parsed...)
	}

	jobs = job.Dedup(jobs)

	c.logger.Info("collected jobs from github",
		zap.Int("files", len(files)),
		zap.Int("jobs", len(jobs)),
	)

	return jobs
}
