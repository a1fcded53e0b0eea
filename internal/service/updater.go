package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/KOFI-GYIMAH/github-tail/internal/github"
	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

const (
	SourceType = "github_search_repos"

	// * GitHub search qualifier layout, seconds precision without zone
	pushedLayout = "2006-01-02T15:04:05"
)

type SearchClient interface {
	SearchRepositories(ctx context.Context, opts github.SearchOptions) (*github.SearchResult, error)
}

type Publisher interface {
	PublishFeedUpdated(ctx context.Context, update models.FeedUpdate) error
}

type UpdateOptions struct {
	MinStars       int
	MaxResults     int
	MaxTotalStored int
}

type UpdateResult struct {
	Query   string
	Fetched int
	New     int
	Feed    *models.Feed
}

// * UpdaterService produces the feed: it searches for repositories pushed since
// * the last run and merges them into the stored document
type UpdaterService struct {
	client    SearchClient
	store     models.FeedStore
	publisher Publisher
	opts      UpdateOptions
	now       func() time.Time
}

func NewUpdaterService(client SearchClient, store models.FeedStore, opts UpdateOptions) *UpdaterService {
	return &UpdaterService{
		client: client,
		store:  store,
		opts:   opts,
		now:    time.Now,
	}
}

// * WithPublisher announces every stored feed on p
func (s *UpdaterService) WithPublisher(p Publisher) *UpdaterService {
	s.publisher = p
	return s
}

func (s *UpdaterService) Run(ctx context.Context) (*UpdateResult, error) {
	existing, err := s.store.LoadFeed(ctx)
	if err != nil {
		logger.Warn("⚠️ could not read the existing feed, starting fresh: %v", err)
		existing = nil
	}

	var (
		lastUpdated models.OptionalTime
		previous    []models.Repository
	)
	if existing != nil {
		lastUpdated = existing.LastUpdated
		previous = existing.Projects
		logger.Info("📂 Existing feed: %d repositories", len(previous))
		if lastUpdated.Valid {
			logger.Info("📅 Last updated: %s", lastUpdated.Time.UTC().Format(time.RFC3339))
		}
	}

	query := BuildQuery(s.opts.MinStars, lastUpdated)
	result, err := s.client.SearchRepositories(ctx, github.SearchOptions{
		Query:   query,
		Sort:    "updated",
		Order:   "desc",
		PerPage: min(s.opts.MaxResults, 100),
		Page:    1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}

	fetched := make([]models.Repository, 0, len(result.Items))
	for _, item := range result.Items {
		fetched = append(fetched, item.ToRepository())
	}

	projects, added := MergeProjects(previous, fetched, s.opts.MaxTotalStored)
	logger.Info("✨ New repositories (not duplicated): %d", added)

	feed := &models.Feed{
		Source: &models.FeedSource{
			Type:     SourceType,
			Query:    query,
			MinStars: models.Ptr(s.opts.MinStars),
		},
		LastUpdated:    models.NewOptionalTime(s.now().UTC()),
		Count:          models.Ptr(len(projects)),
		NewInThisRun:   models.Ptr(added),
		TotalAvailable: models.Ptr(result.TotalCount),
		Projects:       projects,
	}

	if err := s.store.SaveFeed(ctx, feed); err != nil {
		return nil, fmt.Errorf("failed to save feed: %w", err)
	}
	logger.Info("💾 Saved %d repositories (%d new)", len(projects), added)

	if s.publisher != nil {
		update := models.FeedUpdate{
			LastUpdated:  feed.LastUpdated,
			Count:        len(projects),
			NewInThisRun: added,
		}
		if err := s.publisher.PublishFeedUpdated(ctx, update); err != nil {
			logger.Warn("failed to publish feed update: %v", err)
		}
	}

	return &UpdateResult{
		Query:   query,
		Fetched: len(result.Items),
		New:     added,
		Feed:    feed,
	}, nil
}

// * BuildQuery is "stars:>=N", narrowed to repositories pushed after the last run
func BuildQuery(minStars int, lastUpdated models.OptionalTime) string {
	if minStars < 0 {
		minStars = 0
	}
	query := fmt.Sprintf("stars:>=%d", minStars)
	if lastUpdated.Valid {
		query += " pushed:>" + lastUpdated.Time.UTC().Format(pushedLayout)
	}
	return query
}

// * MergeProjects puts unseen fetched repositories ahead of the existing ones,
// * orders everything by updated_at (newest first, undated last) and keeps at
// * most limit entries. limit < 1 keeps everything. Returns the number added.
func MergeProjects(existing, fetched []models.Repository, limit int) ([]models.Repository, int) {
	seen := make(map[int64]struct{}, len(existing)+len(fetched))
	for _, repo := range existing {
		if repo.ID != nil {
			seen[*repo.ID] = struct{}{}
		}
	}

	merged := make([]models.Repository, 0, len(existing)+len(fetched))
	added := 0
	for _, repo := range fetched {
		if repo.ID != nil {
			if _, dup := seen[*repo.ID]; dup {
				continue
			}
			seen[*repo.ID] = struct{}{}
		}
		merged = append(merged, repo)
		added++
	}
	merged = append(merged, existing...)

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i].UpdatedAt, merged[j].UpdatedAt
		if !a.Valid {
			return false
		}
		return !b.Valid || a.Time.After(b.Time)
	})

	if limit > 0 && len(merged) > limit {
		logger.Info("✂️ Keeping the %d most recent repositories", limit)
		merged = merged[:limit]
	}

	return merged, added
}
