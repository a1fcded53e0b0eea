package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
)

func feedOf(n, minStars int) *models.Feed {
	projects := make([]models.Repository, n)
	for i := range projects {
		projects[i] = models.Repository{
			Name:            fmt.Sprintf("repo-%02d", i),
			FullName:        fmt.Sprintf("acme/repo-%02d", i),
			StargazersCount: models.Ptr(i),
			Language:        models.Ptr("Go"),
		}
	}
	return &models.Feed{
		Source:   &models.FeedSource{MinStars: models.Ptr(minStars)},
		Projects: projects,
	}
}

func loaderOf(feed *models.Feed, err error) Loader {
	return func(ctx context.Context) (*models.Feed, error) {
		return feed, err
	}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, feed *models.Feed) *Model {
	t.Helper()
	m := NewModel(context.Background(), loaderOf(feed, nil), nil)
	cmd := m.reload()
	require.NotNil(t, cmd)
	m.Update(cmd())
	return m
}

func TestModel_LoadAppliesHint(t *testing.T) {
	m := loaded(t, feedOf(60, 10))

	assert.False(t, m.loading)
	assert.Equal(t, 50, m.view.Matches)
	assert.Equal(t, "10", m.minStars.Value())
	assert.Equal(t, "", m.search.Value())
	assert.Contains(t, m.View(), "Page 1 of 2")
}

func TestModel_Paging(t *testing.T) {
	m := loaded(t, feedOf(60, 0))

	m.Update(key(tea.KeyPgDown))
	m.Update(key(tea.KeyCtrlN))
	assert.Equal(t, 3, m.view.Page)

	m.Update(key(tea.KeyPgDown))
	assert.Equal(t, 3, m.view.Page, "next on the last page is a no-op")
	assert.Len(t, m.view.Items, 10)

	m.Update(key(tea.KeyPgUp))
	m.Update(key(tea.KeyCtrlP))
	m.Update(key(tea.KeyPgUp))
	assert.Equal(t, 1, m.view.Page)
}

func TestModel_TypingFilters(t *testing.T) {
	m := loaded(t, feedOf(60, 0))
	m.Update(key(tea.KeyPgDown))

	m.Update(runes("repo-1"))
	assert.Equal(t, "repo-1", m.view.SearchTerm)
	assert.Equal(t, 10, m.view.Matches)
	assert.Equal(t, 1, m.view.Page, "a filter change returns to page 1")

	m.Update(key(tea.KeyTab))
	assert.Equal(t, fieldMinStars, m.focus)

	m.Update(key(tea.KeyBackspace))
	m.Update(key(tea.KeyBackspace))
	m.Update(runes("15"))
	assert.Equal(t, "15", m.minStars.Value())
	assert.Equal(t, 5, m.view.Matches)
	assert.Equal(t, "repo-1", m.search.Value(), "typing goes to the focused field only")
}

func TestModel_LoadFailureKeepsListing(t *testing.T) {
	m := loaded(t, feedOf(30, 0))
	m.load = loaderOf(nil, fmt.Errorf("network down"))

	_, cmd := m.Update(key(tea.KeyCtrlR))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "Loading…")

	m.Update(cmd())
	assert.False(t, m.loading)
	assert.Equal(t, 30, m.view.Matches)
	assert.Contains(t, m.View(), "Could not load repositories: network down")
}

func TestModel_EmptyListing(t *testing.T) {
	m := loaded(t, feedOf(5, 0))
	m.Update(runes("zzz"))

	assert.True(t, m.view.Empty)
	assert.Contains(t, m.View(), "No repositories match your filters.")
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, feedOf(1, 0))

	_, cmd := m.Update(key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "", m.View())
}
