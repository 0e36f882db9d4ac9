// Package markdown converts pipe-delimited job tables found in curated
// GitHub repositories into canonical job records.
package markdown

import (
	"strings"

	"go.uber.org/zap"

	"jobradar/internal/job"
)

// Parse scans markdown text for job tables and converts every usable data
// row into a job record. Rows missing a company, a position or an
// absolute application URL are skipped, as is anything that fails schema
// validation; one bad row never aborts the table. Near-duplicates within
// the same document are dropped on lower-cased (position, company).
func Parse(content, source, field string, logger *zap.Logger) []*job.Job {
	var jobs []*job.Job

	inTable := false
	var headers []string

	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "|") {
			inTable = false
			continue
		}

		cells := splitRow(line)
		if len(cells) == 0 {
			continue
		}

		// The first pipe row after a non-table line is the header.
		if !inTable {
			headers = make([]string, 0, len(cells))
			for _, cell := range cells {
				headers = append(headers, strings.ToLower(strings.TrimSpace(cell)))
			}
			inTable = true
			continue
		}

		if isSeparatorRow(cells) {
			continue
		}

		if len(cells) < 3 {
			continue
		}

		j := parseRow(cells, headers, source, field)
		if j == nil {
			continue
		}

		if err := j.Validate(); err != nil {
			logger.Debug("dropping row failing validation",
				zap.String("source", source),
				zap.Error(err),
			)
			continue
		}

		jobs = append(jobs, j)
	}

	jobs = job.Dedup(jobs)

	logger.Info("parsed markdown job table",
		zap.String("source", source),
		zap.Int("jobs", len(jobs)),
	)

	return jobs
}

// splitRow splits "| a | b | c |" into its inner cells.
func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return nil
	}

	cells := make([]string, 0, len(parts)-2)
	for _, part := range parts[1 : len(parts)-1] {
		cells = append(cells, strings.TrimSpace(part))
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		if cell != "" && !strings.Contains(cell, "---") {
			return false
		}
	}
	return true
}

// parseRow converts one data row into a job record, or nil when the row
// does not carry the required fields.
func parseRow(cells, headers []string, source, field string) *job.Job {
	row := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(cells) {
			row[header] = cells[i]
		}
	}

	company := cleanCell(resolve(row, colCompany))
	if company == "" {
		return nil
	}

	position := cleanCell(resolve(row, colPosition))
	if position == "" {
		return nil
	}

	applyLink := extractURL(resolve(row, colLink))
	if !strings.HasPrefix(applyLink, "http") {
		return nil
	}

	location := cleanCell(resolve(row, colLocation))

	j := &job.Job{
		Company:          company,
		Position:         position,
		ApplyLink:        applyLink,
		Location:         location,
		Salary:           cleanCell(resolve(row, colSalary)),
		Type:             job.InferType(position, source),
		RemoteOption:     job.DetectRemoteOption(location),
		DaysSincePosted:  job.ParseAge(resolve(row, colAge)),
		Source:           source,
		CollectionMethod: job.MethodGithubMarkdown,
		Field:            field,
	}
	j.Normalize()

	return j
}
