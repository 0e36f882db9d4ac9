package match

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"jobradar/internal/job"
	"jobradar/internal/logger"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultBatchSize = 20
	maxResumeRunes   = 3000
	maxSummaryRunes  = 300
	maxLogLength     = 200
)

// LLMRanker scores jobs through one prompt per batch. Batches are sized
// to respect model context limits and issued sequentially.
type LLMRanker struct {
	generator contentGenerator
	batchSize int
	logger    *zap.Logger
}

func NewLLMRanker(generator contentGenerator, batchSize int, logger *zap.Logger) *LLMRanker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &LLMRanker{
		generator: generator,
		batchSize: batchSize,
		logger:    logger,
	}
}

// summary is the compact per-job view sent to the model. Index refers to
// the position in the full job slice so scores can be mapped back.
type summary struct {
	Index           int      `json:"index"`
	Company         string   `json:"company"`
	Position        string   `json:"position"`
	Location        string   `json:"location,omitempty"`
	Description     string   `json:"description,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	Field           string   `json:"field,omitempty"`
}

type batchResponse struct {
	Matches []struct {
		Index  int    `json:"index"`
		Score  int    `json:"score"`
		Reason string `json:"reason"`
	} `json:"matches"`
}

// Rank prompts the model batch by batch, sorts the scored jobs by score
// descending and returns the top n. A batch whose response cannot be
// parsed contributes its jobs to Unscored with the error retained; those
// jobs are excluded from the ranking but kept for diagnostics.
func (r *LLMRanker) Rank(ctx context.Context, resume string, jobs []*job.Job, topN int) (*Result, error) {
	if len(jobs) == 0 {
		return &Result{}, nil
	}

	resume = truncateRunes(resume, maxResumeRunes)

	summaries := make([]summary, 0, len(jobs))
	for i, j := range jobs {
		summaries = append(summaries, summary{
			Index:           i,
			Company:         j.Company,
			Position:        j.Position,
			Location:        j.Location,
			Description:     truncateRunes(j.Description, maxSummaryRunes),
			Requirements:    j.Requirements,
			ExperienceLevel: j.ExperienceLevel,
			Field:           j.Field,
		})
	}

	type scored struct {
		index  int
		score  int
		reason string
	}
	var all []scored
	var unscored []*Unscored

	for start := 0; start < len(summaries); start += r.batchSize {
		end := min(start+r.batchSize, len(summaries))
		batch := summaries[start:end]

		scores, err := r.rankBatch(ctx, resume, batch)
		if err != nil {
			r.logger.Warn("skipping unparseable batch",
				zap.Int("batch_start", start),
				zap.Int("batch_size", len(batch)),
				zap.Error(err),
			)
			for _, s := range batch {
				unscored = append(unscored, &Unscored{Job: jobs[s.Index], Error: err.Error()})
			}
			continue
		}

		for _, m := range scores.Matches {
			if m.Index < 0 || m.Index >= len(jobs) {
				continue
			}
			all = append(all, scored{index: m.Index, score: clampScore(m.Score), reason: strings.TrimSpace(m.Reason)})
		}
	}

	if len(all) == 0 && len(unscored) == len(jobs) {
		return nil, fmt.Errorf("no batch produced a parseable response")
	}

	sort.SliceStable(all, func(i, k int) bool { return all[i].score > all[k].score })
	if topN > 0 && len(all) > topN {
		all = all[:topN]
	}

	matches := make([]*Match, 0, len(all))
	for _, s := range all {
		matches = append(matches, &Match{
			Job:         *jobs[s.index],
			MatchScore:  s.score,
			MatchReason: s.reason,
		})
	}

	r.logger.Info("llm ranking completed",
		zap.Int("jobs", len(jobs)),
		zap.Int("matched", len(matches)),
		zap.Int("unscored", len(unscored)),
	)

	return &Result{Matches: matches, Unscored: unscored}, nil
}

func (r *LLMRanker) rankBatch(ctx context.Context, resume string, batch []summary) (*batchResponse, error) {
	jobsJSON, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job summaries: %w", err)
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{RESUME}}", resume)
	prompt = strings.ReplaceAll(prompt, "{{JOBS_JSON}}", string(jobsJSON))

	r.logger.Debug("llm batch request",
		zap.Int("jobs", len(batch)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("llm batch response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, maxLogLength)),
	)

	var resp batchResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	return &resp, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
