package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOFI-GYIMAH/github-tail/internal/github"
	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/internal/service"
)

type fakeSearch struct {
	queries []string
	result  *github.SearchResult
}

func (f *fakeSearch) SearchRepositories(ctx context.Context, opts github.SearchOptions) (*github.SearchResult, error) {
	f.queries = append(f.queries, opts.Query)
	return f.result, nil
}

func useFakeSearch(t *testing.T, result *github.SearchResult) *fakeSearch {
	t.Helper()
	fake := &fakeSearch{result: result}
	original := newSearchClient
	newSearchClient = func(string) service.SearchClient { return fake }
	t.Cleanup(func() { newSearchClient = original })
	return fake
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FEED_URL", "FEED_PATH", "DB_PATH", "OUT_PATH", "MIN_STARS", "MAX_RESULTS", "MAX_TOTAL_STORED", "RABBITMQ_URL", "DEBUG"} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUpdateCommand(t *testing.T) {
	isolateEnv(t)
	fake := useFakeSearch(t, &github.SearchResult{
		TotalCount: 99,
		Items: []github.SearchRepository{
			{ID: 1, Name: "tail", FullName: "acme/tail", StargazersCount: 12},
			{ID: 2, Name: "head", FullName: "acme/head", StargazersCount: 30},
		},
	})

	path := filepath.Join(t.TempDir(), "data", "projects.json")
	out, err := execute(t, "update", "--out", path, "--min-stars", "3", "--max-total", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "stars:>=3: fetched 2, 2 new, 1 stored")
	assert.Equal(t, []string{"stars:>=3"}, fake.queries)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var feed models.Feed
	require.NoError(t, json.Unmarshal(raw, &feed))
	assert.Equal(t, "github_search_repos", feed.Source.Type)
	assert.Equal(t, 3, feed.MinStarsHint())
	assert.Equal(t, 1, *feed.Count)
	assert.Equal(t, 2, *feed.NewInThisRun)
	assert.Equal(t, 99, *feed.TotalAvailable)
	assert.True(t, feed.LastUpdated.Valid)

	// * the second run is incremental
	_, err = execute(t, "update", "--out", path, "--min-stars", "3")
	require.NoError(t, err)
	require.Len(t, fake.queries, 2)
	assert.Contains(t, fake.queries[1], "stars:>=3 pushed:>")
}

func TestUpdateCommand_FeedPathFlagSetsOutput(t *testing.T) {
	isolateEnv(t)
	useFakeSearch(t, &github.SearchResult{})

	path := filepath.Join(t.TempDir(), "feed.json")
	_, err := execute(t, "--feed-path", path, "update")
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRootCommand_InvalidEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MIN_STARS", "many")

	_, err := execute(t, "update")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIN_STARS")
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd("1.2.3")
	names := []string{}
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"update", "browse"}, names)
	assert.Equal(t, "1.2.3", cmd.Version)
}
