package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const jobTable = `| Company | Position | Location | Link |
| --- | --- | --- | --- |
| Acme | ML Engineer | Remote | https://acme.example/jobs/1 |
| Globex | Data Scientist | Austin, TX | https://globex.example/jobs/2 |
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "stars:>=")
		_, _ = w.Write([]byte(`{"items":[{
			"name": "2026-jobs",
			"full_name": "curated/2026-jobs",
			"owner": {"login": "curated"},
			"description": "new grad jobs",
			"stargazers_count": 500,
			"default_branch": "main"
		}]}`))
	})
	mux.HandleFunc("/repos/curated/2026-jobs/contents", func(w http.ResponseWriter, r *http.Request) {
		server := "http://" + r.Host
		_, _ = w.Write([]byte(`[
			{"name": "NEW_GRAD_USA.md", "type": "file", "download_url": "` + server + `/raw/NEW_GRAD_USA.md"},
			{"name": "CONTRIBUTING.md", "type": "file", "download_url": "` + server + `/raw/CONTRIBUTING.md"},
			{"name": "assets", "type": "dir", "download_url": ""}
		]`))
	})
	mux.HandleFunc("/raw/NEW_GRAD_USA.md", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jobTable))
	})

	return httptest.NewServer(mux)
}

func TestCollectDiscoversAndParses(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	defer server.Close()

	client := New(context.Background(), zap.NewNop(), "")
	client.APIURL = server.URL

	jobs := client.Collect(CollectorConfig{
		Keywords: []string{"2026 new grad jobs"},
		Field:    "AI/ML",
	})

	require.Len(t, jobs, 2)
	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, "curated/2026-jobs", jobs[0].Source)
	assert.Equal(t, "AI/ML", jobs[0].Field)
}

func TestCollectFallsBackToConfiguredSources(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/raw/jobs.md", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jobTable))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := New(context.Background(), zap.NewNop(), "")
	client.APIURL = server.URL

	jobs := client.Collect(CollectorConfig{
		Keywords: []string{"new grad"},
		Fallback: []Source{{
			Owner:       "speedyapply",
			Repo:        "2026-AI-College-Jobs",
			FileName:    "jobs.md",
			DownloadURL: server.URL + "/raw/jobs.md",
		}},
	})

	require.Len(t, jobs, 2)
	assert.Equal(t, "speedyapply/2026-AI-College-Jobs", jobs[0].Source)
}

func TestCollectSurvivesFetchFailure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := New(context.Background(), zap.NewNop(), "")
	client.APIURL = server.URL

	jobs := client.Collect(CollectorConfig{
		Keywords: []string{"new grad"},
		Fallback: []Source{{
			Owner:       "gone",
			Repo:        "repo",
			FileName:    "jobs.md",
			DownloadURL: server.URL + "/raw/missing.md",
		}},
	})

	assert.Empty(t, jobs)
}

func TestMatchesJobFile(t *testing.T) {
	t.Parallel()

	assert.True(t, matchesJobFile("NEW_GRAD_USA.md"))
	assert.True(t, matchesJobFile("README.md"))
	assert.True(t, matchesJobFile("INTERN_2026.md"))
	assert.False(t, matchesJobFile("CONTRIBUTING.md"))
}
