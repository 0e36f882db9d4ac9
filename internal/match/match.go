// Package match ranks collected job records against a resume, either
// through a Gemini prompt or a deterministic keyword fallback.
package match

import (
	"context"

	"go.uber.org/zap"

	"jobradar/internal/job"
)

// Match is a job record enriched with a score and a short justification.
// It is a derived, transient view: created only here, consumed only by
// the notification step, never merged back into the store.
type Match struct {
	job.Job
	MatchScore  int    `json:"match_score"`
	MatchReason string `json:"match_reason"`
}

// Unscored is a job the primary ranker could not score, kept for
// diagnostics instead of being discarded.
type Unscored struct {
	Job   *job.Job `json:"job"`
	Error string   `json:"error"`
}

// Result is the outcome of one ranking run.
type Result struct {
	Matches  []*Match
	Unscored []*Unscored
}

// Ranker scores a batch of jobs against resume text. Implementations are
// stateless: each call is independent given (resume, jobs, topN).
type Ranker interface {
	Rank(ctx context.Context, resume string, jobs []*job.Job, topN int) (*Result, error)
}

// Matcher runs the primary ranker and falls back to the keyword ranker
// for the whole run when the primary is unavailable or fails.
type Matcher struct {
	primary  Ranker
	fallback Ranker
	logger   *zap.Logger
}

// NewMatcher builds a matcher. primary may be nil when LLM credentials
// are not configured; the fallback then serves the entire run.
func NewMatcher(primary Ranker, logger *zap.Logger) *Matcher {
	return &Matcher{
		primary:  primary,
		fallback: NewKeywordRanker(logger),
		logger:   logger,
	}
}

func (m *Matcher) Rank(ctx context.Context, resume string, jobs []*job.Job, topN int) (*Result, error) {
	if m.primary == nil {
		m.logger.Info("llm ranker not configured, using keyword fallback")
		return m.fallback.Rank(ctx, resume, jobs, topN)
	}

	result, err := m.primary.Rank(ctx, resume, jobs, topN)
	if err != nil {
		m.logger.Warn("llm ranking failed, using keyword fallback", zap.Error(err))
		return m.fallback.Rank(ctx, resume, jobs, topN)
	}

	return result, nil
}
