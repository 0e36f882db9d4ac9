package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobradar/internal/job"
)

// stubGenerator returns canned responses per call, in order.
type stubGenerator struct {
	responses []string
	errs      []error
	prompts   []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	call := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if call < len(s.errs) && s.errs[call] != nil {
		return "", s.errs[call]
	}
	if call < len(s.responses) {
		return s.responses[call], nil
	}
	return "", errors.New("no response configured")
}

func (s *stubGenerator) Model() string { return "stub-model" }

func testJobs(n int) []*job.Job {
	jobs := make([]*job.Job, 0, n)
	for i := 0; i < n; i++ {
		jobs = append(jobs, &job.Job{
			Company:          fmt.Sprintf("Company %d", i),
			Position:         "ML Engineer",
			ApplyLink:        fmt.Sprintf("https://example.com/jobs/%d", i),
			Description:      "Build machine learning systems in Python",
			Source:           "test",
			CollectionMethod: job.MethodAPI,
		})
	}
	return jobs
}

func TestLLMRankerRanksAndSorts(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{responses: []string{
		`{"matches":[{"index":0,"score":40,"reason":"partial"},{"index":1,"score":90,"reason":"strong"},{"index":2,"score":70,"reason":"good"}]}`,
	}}
	ranker := NewLLMRanker(stub, 20, zap.NewNop())

	result, err := ranker.Rank(context.Background(), "python resume", testJobs(3), 2)
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)

	assert.Equal(t, "Company 1", result.Matches[0].Company)
	assert.Equal(t, 90, result.Matches[0].MatchScore)
	assert.Equal(t, "strong", result.Matches[0].MatchReason)
	assert.Equal(t, "Company 2", result.Matches[1].Company)
	assert.Empty(t, result.Unscored)

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "python resume")
	assert.Contains(t, stub.prompts[0], `"index": 2`)
}

func TestLLMRankerStripsCodeFences(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{responses: []string{
		"```json\n{\"matches\":[{\"index\":0,\"score\":80,\"reason\":\"fit\"}]}\n```",
	}}
	ranker := NewLLMRanker(stub, 20, zap.NewNop())

	result, err := ranker.Rank(context.Background(), "resume", testJobs(1), 10)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, 80, result.Matches[0].MatchScore)
}

func TestLLMRankerBatchesSequentially(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{responses: []string{
		`{"matches":[{"index":0,"score":10,"reason":"a"},{"index":1,"score":20,"reason":"b"}]}`,
		`{"matches":[{"index":2,"score":30,"reason":"c"}]}`,
	}}
	ranker := NewLLMRanker(stub, 2, zap.NewNop())

	result, err := ranker.Rank(context.Background(), "resume", testJobs(3), 10)
	require.NoError(t, err)
	require.Len(t, stub.prompts, 2)
	require.Len(t, result.Matches, 3)
	assert.Equal(t, 30, result.Matches[0].MatchScore)
}

func TestLLMRankerKeepsUnscoredOnParseFailure(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{responses: []string{
		`not json at all`,
		`{"matches":[{"index":2,"score":55,"reason":"ok"}]}`,
	}}
	ranker := NewLLMRanker(stub, 2, zap.NewNop())

	jobs := testJobs(3)
	result, err := ranker.Rank(context.Background(), "resume", jobs, 10)
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Company 2", result.Matches[0].Company)

	require.Len(t, result.Unscored, 2)
	assert.Equal(t, jobs[0], result.Unscored[0].Job)
	assert.Contains(t, result.Unscored[0].Error, "parse model response")
}

func TestLLMRankerFailsWhenNothingParses(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{responses: []string{`garbage`}}
	ranker := NewLLMRanker(stub, 20, zap.NewNop())

	_, err := ranker.Rank(context.Background(), "resume", testJobs(2), 10)
	assert.Error(t, err)
}

func TestLLMRankerClampsScores(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{responses: []string{
		`{"matches":[{"index":0,"score":250,"reason":"too high"},{"index":1,"score":-5,"reason":"too low"}]}`,
	}}
	ranker := NewLLMRanker(stub, 20, zap.NewNop())

	result, err := ranker.Rank(context.Background(), "resume", testJobs(2), 10)
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, 100, result.Matches[0].MatchScore)
	assert.Equal(t, 0, result.Matches[1].MatchScore)
}

func TestLLMRankerTruncatesDescriptions(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{responses: []string{
		`{"matches":[{"index":0,"score":50,"reason":"ok"}]}`,
	}}
	ranker := NewLLMRanker(stub, 20, zap.NewNop())

	jobs := testJobs(1)
	jobs[0].Description = strings.Repeat("x", 1000)

	_, err := ranker.Rank(context.Background(), "resume", jobs, 10)
	require.NoError(t, err)
	assert.NotContains(t, stub.prompts[0], strings.Repeat("x", 301))
	assert.Contains(t, stub.prompts[0], strings.Repeat("x", 300))
}

func TestMatcherFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{errs: []error{errors.New("quota exceeded")}}
	matcher := NewMatcher(NewLLMRanker(stub, 20, zap.NewNop()), zap.NewNop())

	result, err := matcher.Rank(context.Background(), "python machine learning", testJobs(2), 10)
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, fallbackReason, result.Matches[0].MatchReason)
}

func TestMatcherUsesFallbackWithoutPrimary(t *testing.T) {
	t.Parallel()

	matcher := NewMatcher(nil, zap.NewNop())

	result, err := matcher.Rank(context.Background(), "python machine learning", testJobs(1), 10)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.GreaterOrEqual(t, result.Matches[0].MatchScore, 0)
	assert.NotEmpty(t, result.Matches[0].MatchReason)
}
