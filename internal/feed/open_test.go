package feed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOFI-GYIMAH/github-tail/internal/config"
	"github.com/KOFI-GYIMAH/github-tail/internal/db"
	"github.com/KOFI-GYIMAH/github-tail/internal/models"
)

func TestOpenSource(t *testing.T) {
	t.Run("feed url wins", func(t *testing.T) {
		src, closeFn, err := OpenSource(&config.Config{FeedURL: "https://example.com/p.json", FeedPath: "x.json"})
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &HTTPSource{}, src)
	})

	t.Run("json file otherwise", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "projects.json")
		require.NoError(t, db.NewJSONFileStore(path).SaveFeed(context.Background(), &models.Feed{
			Projects: []models.Repository{{Name: "tail"}},
		}))

		src, closeFn, err := OpenSource(&config.Config{FeedPath: path})
		require.NoError(t, err)
		defer closeFn()

		feed, err := src.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, feed.Projects, 1)
	})
}

func TestOpenStore_JSONFile(t *testing.T) {
	store, closeFn, err := OpenStore(&config.Config{}, "out.json")
	require.NoError(t, err)
	assert.NoError(t, closeFn())
	assert.Equal(t, "out.json", store.(*db.JSONFileStore).Path())
}
