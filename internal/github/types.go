package github

import "github.com/KOFI-GYIMAH/github-tail/internal/models"

type SearchOwner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// * SearchRepository is one item of /search/repositories
type SearchRepository struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	FullName        string              `json:"full_name"`
	HTMLURL         string              `json:"html_url"`
	Description     *string             `json:"description"`
	StargazersCount int                 `json:"stargazers_count"`
	Language        *string             `json:"language"`
	UpdatedAt       models.OptionalTime `json:"updated_at"`
	PushedAt        models.OptionalTime `json:"pushed_at"`
	Fork            bool                `json:"fork"`
	Owner           *SearchOwner        `json:"owner"`
}

type SearchResult struct {
	TotalCount        int                `json:"total_count"`
	IncompleteResults bool               `json:"incomplete_results"`
	Items             []SearchRepository `json:"items"`
}

type SearchOptions struct {
	Query   string
	Sort    string
	Order   string
	PerPage int
	Page    int
}

// * ToRepository maps a search item onto the feed record shape
func (r SearchRepository) ToRepository() models.Repository {
	repo := models.Repository{
		ID:              models.Ptr(r.ID),
		Name:            r.Name,
		FullName:        r.FullName,
		HTMLURL:         r.HTMLURL,
		Description:     r.Description,
		StargazersCount: models.Ptr(r.StargazersCount),
		Language:        r.Language,
		UpdatedAt:       r.UpdatedAt,
		PushedAt:        r.PushedAt,
		Fork:            models.Ptr(r.Fork),
	}
	if r.Owner != nil {
		repo.Owner = &models.Owner{
			Login:     r.Owner.Login,
			AvatarURL: r.Owner.AvatarURL,
			HTMLURL:   r.Owner.HTMLURL,
		}
	}
	return repo
}
