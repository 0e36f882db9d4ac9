// Package store persists job records as flat JSON files and merges them
// back from an arbitrary set of directories.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobradar/internal/job"
)

// Store reads and writes job files. It holds no state between calls; the
// logical collection is formed fresh on every Load.
type Store struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{logger: logger}
}

// collection is the wrapper shape written by Save.
type collection struct {
	Jobs        []*job.Job `json:"jobs"`
	TotalCount  int        `json:"total_count"`
	CollectedAt time.Time  `json:"collected_at"`
	Sources     []string   `json:"sources"`
}

// Load merges every record found in *.json files under the given
// directories, preserving encounter order. A missing directory or an
// unparseable file is skipped with a warning; it never aborts the load.
// No deduplication happens at this layer.
func (s *Store) Load(dirs []string) []*job.Job {
	var all []*job.Job

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Warn("skipping jobs directory", zap.String("dir", dir), zap.Error(err))
			continue
		}

		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(dir, name)

			data, err := os.ReadFile(path)
			if err != nil {
				s.logger.Warn("skipping unreadable job file", zap.String("path", path), zap.Error(err))
				continue
			}

			jobs, err := decodeRecords(data)
			if err != nil {
				s.logger.Warn("skipping unparseable job file", zap.String("path", path), zap.Error(err))
				continue
			}

			all = append(all, jobs...)
			s.logger.Debug("loaded job file", zap.String("path", path), zap.Int("jobs", len(jobs)))
		}
	}

	s.logger.Info("loaded jobs from all sources", zap.Int("total", len(all)))
	return all
}

// Save writes the jobs as a timestamped wrapper file under dir and
// returns the file path. The source label becomes the filename prefix.
func (s *Store) Save(jobs []*job.Job, dir, source string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating jobs directory: %w", err)
	}

	seen := make(map[string]struct{})
	sources := make([]string, 0)
	for _, j := range jobs {
		if _, ok := seen[j.Source]; ok {
			continue
		}
		seen[j.Source] = struct{}{}
		sources = append(sources, j.Source)
	}

	coll := collection{
		Jobs:        jobs,
		TotalCount:  len(jobs),
		CollectedAt: time.Now().UTC(),
		Sources:     sources,
	}

	name := fmt.Sprintf("%s_%s.json", sanitize(source), time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(coll); err != nil {
		return "", fmt.Errorf("writing job file: %w", err)
	}

	s.logger.Info("saved jobs", zap.String("path", path), zap.Int("jobs", len(jobs)))
	return path, nil
}

// sanitize turns a source label into a filename-safe prefix.
func sanitize(source string) string {
	source = strings.ToLower(strings.TrimSpace(source))
	replacer := strings.NewReplacer("/", "_", " ", "_", ":", "_")
	source = replacer.Replace(source)
	if source == "" {
		source = "jobs"
	}
	return source
}
