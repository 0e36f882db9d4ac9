package match

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"jobradar/internal/job"
)

// fallbackKeywords is the fixed vocabulary of the degraded-but-available
// ranking path. Each keyword present in both the resume and the job text
// is worth ten points.
var fallbackKeywords = []string{
	"python", "machine learning", "ai", "data", "software", "engineer", "ml", "deep learning",
}

const fallbackReason = "keyword overlap (fallback)"

// KeywordRanker scores jobs by keyword overlap between the resume and
// the job description plus requirements. It is fully deterministic: ties
// keep the original order.
type KeywordRanker struct {
	logger *zap.Logger
}

func NewKeywordRanker(logger *zap.Logger) *KeywordRanker {
	return &KeywordRanker{logger: logger}
}

func (r *KeywordRanker) Rank(_ context.Context, resume string, jobs []*job.Job, topN int) (*Result, error) {
	resume = strings.ToLower(resume)

	matches := make([]*Match, 0, len(jobs))
	for _, j := range jobs {
		text := strings.ToLower(j.Description + " " + strings.Join(j.Requirements, " "))

		score := 0
		for _, keyword := range fallbackKeywords {
			if strings.Contains(resume, keyword) && strings.Contains(text, keyword) {
				score += 10
			}
		}

		matches = append(matches, &Match{
			Job:         *j,
			MatchScore:  score,
			MatchReason: fallbackReason,
		})
	}

	sort.SliceStable(matches, func(i, k int) bool { return matches[i].MatchScore > matches[k].MatchScore })
	if topN > 0 && len(matches) > topN {
		matches = matches[:topN]
	}

	r.logger.Info("keyword ranking completed", zap.Int("jobs", len(jobs)), zap.Int("matched", len(matches)))

	return &Result{Matches: matches}, nil
}
