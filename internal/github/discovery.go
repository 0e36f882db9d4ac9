package github

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Repo is a discovered job-list repository.
type Repo struct {
	Owner         string
	Name          string
	FullName      string
	Description   string
	Stars         int
	DefaultBranch string
}

// JobFile is a markdown file inside a repository that likely carries a
// job table.
type JobFile struct {
	Repo        *Repo
	Name        string
	DownloadURL string
}

type searchResponse struct {
	Items []struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
		Owner    struct {
			Login string `json:"login"`
		} `json:"owner"`
		Description     string `json:"description"`
		StargazersCount int    `json:"stargazers_count"`
		DefaultBranch   string `json:"default_branch"`
	} `json:"items"`
}

type contentsEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// SearchRepositories finds actively maintained job-list repositories for
// each keyword. A failed keyword is logged and skipped; duplicates across
// keywords are removed preserving encounter order.
func (c *Client) SearchRepositories(keywords []string, minStars, updatedWithinDays int) []*Repo {
	var repos []*Repo
	seen := make(map[string]struct{})

	threshold := time.Now().AddDate(0, 0, -updatedWithinDays).Format("2006-01-02")

	for _, keyword := range keywords {
		if err := c.limiter.Wait(c.ctx); err != nil {
			c.logger.Warn("repository search interrupted", zap.Error(err))
			break
		}

		params := url.Values{}
		params.Set("q", fmt.Sprintf("%s stars:>=%d pushed:>=%s", keyword, minStars, threshold))
		params.Set("sort", "updated")
		params.Set("order", "desc")
		params.Set("per_page", "10")

		var resp searchResponse
		if err := c.getJSON(c.APIURL+"/search/repositories", params, &resp); err != nil {
			c.logger.Warn("repository search failed",
				zap.String("keyword", keyword),
				zap.Error(err),
			)
			continue
		}

		for _, item := range resp.Items {
			if _, ok := seen[item.FullName]; ok {
				continue
			}
			seen[item.FullName] = struct{}{}
			repos = append(repos, &Repo{
				Owner:         item.Owner.Login,
				Name:          item.Name,
				FullName:      item.FullName,
				Description:   item.Description,
				Stars:         item.StargazersCount,
				DefaultBranch: item.DefaultBranch,
			})
		}

		c.logger.Debug("repository search",
			zap.String("keyword", keyword),
			zap.Int("found", len(resp.Items)),
		)
	}

	c.logger.Info("discovered job repositories", zap.Int("count", len(repos)))
	return repos
}

// jobFileMarkers pick the markdown files worth parsing out of a repo
// root. Curated lists keep the table either in the README or in files
// named after the cohort.
var jobFileMarkers = []string{"new_grad", "new-grad", "newgrad", "intern", "jobs", "readme"}

// FindJobFiles lists markdown files in the repository root that look
// like job tables.
func (c *Client) FindJobFiles(repo *Repo) ([]*JobFile, error) {
	var entries []contentsEntry
	contentsURL := fmt.Sprintf("%s/repos/%s/contents", c.APIURL, repo.FullName)
	if err := c.getJSON(contentsURL, nil, &entries); err != nil {
		return nil, fmt.Errorf("list %s contents: %w", repo.FullName, err)
	}

	var files []*JobFile
	for _, entry := range entries {
		if entry.Type != "file" || !strings.HasSuffix(strings.ToLower(entry.Name), ".md") {
			continue
		}
		if !matchesJobFile(entry.Name) {
			continue
		}
		if entry.DownloadURL == "" {
			continue
		}
		files = append(files, &JobFile{
			Repo:        repo,
			Name:        entry.Name,
			DownloadURL: entry.DownloadURL,
		})
	}

	return files, nil
}

func matchesJobFile(name string) bool {
	name = strings.ToLower(name)
	for _, marker := range jobFileMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
