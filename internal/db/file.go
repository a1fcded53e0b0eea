package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/pkg/errors"
)

// * JSONFileStore keeps the feed as a single pretty-printed JSON document
type JSONFileStore struct {
	path string
}

var _ models.FeedStore = (*JSONFileStore)(nil)

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

func (s *JSONFileStore) Path() string {
	return s.path
}

func (s *JSONFileStore) LoadFeed(ctx context.Context) (*models.Feed, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(
			"FEED_FILE_ERROR",
			"Failed to read feed file",
			fmt.Sprintf("Could not read %s", s.path),
			err,
			errors.LevelError,
		)
	}

	var feed models.Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, errors.New(
			"FEED_FILE_ERROR",
			"Failed to parse feed file",
			fmt.Sprintf("%s is not a valid feed document", s.path),
			err,
			errors.LevelError,
		)
	}
	if feed.Projects == nil {
		feed.Projects = []models.Repository{}
	}

	return &feed, nil
}

// * SaveFeed writes to a temp file and renames it so readers never see a partial document
func (s *JSONFileStore) SaveFeed(ctx context.Context, feed *models.Feed) error {
	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return errors.New(
			"FEED_FILE_ERROR",
			"Failed to encode feed",
			"Could not serialize the feed document",
			err,
			errors.LevelError,
		)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(
			"FEED_FILE_ERROR",
			"Failed to create feed directory",
			fmt.Sprintf("Could not create %s", dir),
			err,
			errors.LevelError,
		)
	}

	tmp, err := os.CreateTemp(dir, ".feed-*.json")
	if err != nil {
		return errors.New(
			"FEED_FILE_ERROR",
			"Failed to write feed file",
			fmt.Sprintf("Could not create a temp file in %s", dir),
			err,
			errors.LevelError,
		)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return errors.New("FEED_FILE_ERROR", "Failed to write feed file", tmp.Name(), err, errors.LevelError)
	}
	if err := tmp.Close(); err != nil {
		return errors.New("FEED_FILE_ERROR", "Failed to write feed file", tmp.Name(), err, errors.LevelError)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.New(
			"FEED_FILE_ERROR",
			"Failed to replace feed file",
			fmt.Sprintf("Could not move the new feed into %s", s.path),
			err,
			errors.LevelError,
		)
	}

	return nil
}
