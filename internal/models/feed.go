package models

import "context"

// * FeedSource describes how a feed was produced
type FeedSource struct {
	Type     string `json:"type,omitempty"`
	Query    string `json:"query,omitempty"`
	MinStars *int   `json:"min_stars,omitempty"`
}

// * Feed is the document served by the data source and written by the updater
type Feed struct {
	Source         *FeedSource  `json:"source,omitempty"`
	LastUpdated    OptionalTime `json:"last_updated"`
	Count          *int         `json:"count,omitempty"`
	NewInThisRun   *int         `json:"new_in_this_run,omitempty"`
	TotalAvailable *int         `json:"total_available,omitempty"`
	Projects       []Repository `json:"projects"`
}

// * MinStarsHint is source.min_stars, 0 when absent
func (f *Feed) MinStarsHint() int {
	if f == nil || f.Source == nil || f.Source.MinStars == nil || *f.Source.MinStars < 0 {
		return 0
	}
	return *f.Source.MinStars
}

// * TotalCount is count, falling back to the number of projects
func (f *Feed) TotalCount() int {
	if f == nil {
		return 0
	}
	if f.Count != nil {
		return *f.Count
	}
	return len(f.Projects)
}

// * FeedStore persists the latest feed document. LoadFeed returns (nil, nil) when
// * nothing has been stored yet.
type FeedStore interface {
	LoadFeed(ctx context.Context) (*Feed, error)
	SaveFeed(ctx context.Context, feed *Feed) error
}

// * FeedUpdate announces that a new feed was stored
type FeedUpdate struct {
	LastUpdated  OptionalTime `json:"last_updated"`
	Count        int          `json:"count"`
	NewInThisRun int          `json:"new_in_this_run"`
}
