package explorer

import (
	"fmt"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
)

// Fallback texts for absent fields and empty listings.
const (
	NoDescription = "No description"
	Unknown       = "Unknown"
	NoResults     = "No repositories match your filters."
)

type OwnerView struct {
	Login     string `json:"login"`
	URL       string `json:"url,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ItemView is one repository with every optional field resolved.
type ItemView struct {
	Owner       *OwnerView `json:"owner,omitempty"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Stars       int        `json:"stars"`
	StarsText   string     `json:"stars_text"`
	Language    string     `json:"language"`
	Updated     string     `json:"updated"`
}

// View is the display-ready projection of a State.
type View struct {
	Items       []ItemView `json:"items"`
	Empty       bool       `json:"empty"`
	Placeholder string     `json:"placeholder,omitempty"`

	Page        int    `json:"page"`
	TotalPages  int    `json:"total_pages"`
	Matches     int    `json:"matches"`
	PageStatus  string `json:"page_status"`
	HasPrevious bool   `json:"has_previous"`
	HasNext     bool   `json:"has_next"`

	SearchTerm string `json:"search_term"`
	MinStars   int    `json:"min_stars"`

	LastUpdated string `json:"last_updated"`
	TotalCount  string `json:"total_count"`
	Error       string `json:"error,omitempty"`
}

// Project builds the View for s. It reads at most PageSize records.
func Project(s State, f *Formatter) View {
	if f == nil {
		f = NewFormatter("en", nil)
	}

	page := s.PageItems()
	total := s.TotalPages()

	v := View{
		Items:       make([]ItemView, 0, len(page)),
		Page:        s.Page,
		TotalPages:  total,
		Matches:     len(s.Filtered),
		PageStatus:  fmt.Sprintf("Page %d of %d", s.Page, total),
		HasPrevious: s.Page > 1,
		HasNext:     s.Page < total,
		SearchTerm:  s.Criteria.SearchTerm,
		MinStars:    s.Criteria.MinStars,
		LastUpdated: lastUpdatedBanner(s, f),
		TotalCount:  totalCountBanner(s, f),
		Error:       s.LoadError,
	}

	for _, repo := range page {
		v.Items = append(v.Items, projectItem(repo, f))
	}
	if len(v.Items) == 0 {
		v.Empty = true
		v.Placeholder = NoResults
	}

	return v
}

func projectItem(repo models.Repository, f *Formatter) ItemView {
	item := ItemView{
		Name:        repo.DisplayName(),
		URL:         repo.HTMLURL,
		Description: repo.DescriptionText(),
		Stars:       repo.Stars(),
		Language:    Unknown,
		Updated:     Unknown,
	}
	item.StarsText = f.Count(item.Stars)

	if item.Description == "" {
		item.Description = NoDescription
	}
	if repo.Language != nil && *repo.Language != "" {
		item.Language = *repo.Language
	}
	if repo.UpdatedAt.Valid {
		item.Updated = f.DateTime(repo.UpdatedAt.Time)
	}
	if repo.Owner != nil {
		item.Owner = &OwnerView{
			Login:     repo.Owner.Login,
			URL:       repo.Owner.HTMLURL,
			AvatarURL: repo.Owner.AvatarURL,
		}
		if item.Owner.Login == "" {
			item.Owner.Login = Unknown
		}
	}

	return item
}

func lastUpdatedBanner(s State, f *Formatter) string {
	if s.Feed == nil || !s.Feed.LastUpdated.Valid {
		return "Last updated: " + Unknown
	}
	return "Last updated: " + f.DateTime(s.Feed.LastUpdated.Time)
}

func totalCountBanner(s State, f *Formatter) string {
	banner := f.Count(s.Feed.TotalCount()) + " repositories"
	if s.Feed != nil && s.Feed.NewInThisRun != nil {
		banner += fmt.Sprintf(" (%s new in this run)", f.Count(*s.Feed.NewInThisRun))
	}
	return banner
}
