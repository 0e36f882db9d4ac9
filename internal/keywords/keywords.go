// Package keywords loads the search-query configuration file: one query
// per line, optional per-query overrides.
package keywords

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const defaultLimit = 25

// Query is one configured job search.
type Query struct {
	Text     string
	Location string
	Limit    int
}

// Defaults returned when the keywords file is missing or empty.
func Defaults() []Query {
	return []Query{
		{Text: "machine learning new grad", Limit: defaultLimit},
		{Text: "artificial intelligence", Limit: defaultLimit},
		{Text: "data science", Limit: defaultLimit},
	}
}

// Load reads queries from path. Blank lines and lines starting with '#'
// are ignored. A line may carry `|`-delimited suffix fields overriding
// the location and result limit: `text|location|limit`. A missing or
// unreadable file yields the built-in defaults with a warning.
func Load(path string, logger *zap.Logger) []Query {
	file, err := os.Open(path)
	if err != nil {
		logger.Warn("keywords file not found, using defaults", zap.String("path", path), zap.Error(err))
		return Defaults()
	}
	defer file.Close()

	var queries []Query

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, parseLine(line))
	}

	if err := scanner.Err(); err != nil {
		logger.Warn("reading keywords file", zap.String("path", path), zap.Error(err))
	}

	if len(queries) == 0 {
		logger.Warn("keywords file is empty, using defaults", zap.String("path", path))
		return Defaults()
	}

	logger.Info("loaded search queries", zap.String("path", path), zap.Int("count", len(queries)))
	return queries
}

func parseLine(line string) Query {
	q := Query{Limit: defaultLimit}

	parts := strings.Split(line, "|")
	q.Text = strings.TrimSpace(parts[0])

	if len(parts) > 1 {
		q.Location = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		if limit, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil && limit > 0 {
			q.Limit = limit
		}
	}

	return q
}
