package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/pkg/errors"
)

const requestTimeout = 30 * time.Second

// * Source yields one complete feed document per call
type Source interface {
	Load(ctx context.Context) (*models.Feed, error)
}

// * HTTPSource fetches the feed from a JSON endpoint
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (s *HTTPSource) Load(ctx context.Context) (*models.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.New(
			errors.RefFeedUnavailable,
			"Failed to build feed request",
			fmt.Sprintf("Invalid feed URL %q", s.url),
			err,
			errors.LevelError,
		)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.New(
			errors.RefFeedUnavailable,
			"Failed to fetch feed",
			"The feed endpoint could not be reached",
			err,
			errors.LevelError,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.New(
			errors.RefFeedUnavailable,
			"Failed to fetch feed",
			fmt.Sprintf("HTTP %d", resp.StatusCode),
			fmt.Errorf("unexpected response: %s", body),
			errors.LevelError,
		)
	}

	var feed models.Feed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, errors.New(
			errors.RefFeedUnavailable,
			"Failed to decode feed",
			"The feed endpoint returned malformed JSON",
			err,
			errors.LevelError,
		)
	}
	if feed.Projects == nil {
		feed.Projects = []models.Repository{}
	}

	return &feed, nil
}

// * StoreSource reads the feed from a FeedStore (JSON file or Postgres)
type StoreSource struct {
	store models.FeedStore
}

func NewStoreSource(store models.FeedStore) *StoreSource {
	return &StoreSource{store: store}
}

func (s *StoreSource) Load(ctx context.Context) (*models.Feed, error) {
	feed, err := s.store.LoadFeed(ctx)
	if err != nil {
		return nil, errors.New(
			errors.RefFeedUnavailable,
			"Failed to load stored feed",
			"",
			err,
			errors.LevelError,
		)
	}
	if feed == nil {
		return nil, errors.New(
			errors.RefFeedUnavailable,
			"No feed stored yet",
			"Run the updater to produce one",
			nil,
			errors.LevelError,
		)
	}
	return feed, nil
}
