package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadParsesQueriesAndOverrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "search_keywords.txt")
	content := `# queries
machine learning new grad

ai engineer|Austin, TX|10
data scientist|Remote
backend engineer||bogus
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	queries := Load(path, zap.NewNop())
	require.Len(t, queries, 4)

	assert.Equal(t, Query{Text: "machine learning new grad", Limit: defaultLimit}, queries[0])
	assert.Equal(t, Query{Text: "ai engineer", Location: "Austin, TX", Limit: 10}, queries[1])
	assert.Equal(t, Query{Text: "data scientist", Location: "Remote", Limit: defaultLimit}, queries[2])
	assert.Equal(t, Query{Text: "backend engineer", Limit: defaultLimit}, queries[3])
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	queries := Load(filepath.Join(t.TempDir(), "nope.txt"), zap.NewNop())
	assert.Equal(t, Defaults(), queries)
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("# only comments\n"), 0o644))

	assert.Equal(t, Defaults(), Load(path, zap.NewNop()))
}
