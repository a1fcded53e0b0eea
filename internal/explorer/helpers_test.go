package explorer

import (
	"fmt"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
)

func repo(name string, stars int, description string) models.Repository {
	r := models.Repository{
		Name:            name,
		FullName:        "acme/" + name,
		HTMLURL:         "https://github.com/acme/" + name,
		StargazersCount: models.Ptr(stars),
	}
	if description != "" {
		r.Description = models.Ptr(description)
	}
	return r
}

func repos(n, stars int) []models.Repository {
	out := make([]models.Repository, n)
	for i := range out {
		out[i] = repo(fmt.Sprintf("repo-%03d", i), stars, "")
	}
	return out
}

func feedOf(projects []models.Repository) *models.Feed {
	return &models.Feed{Projects: projects}
}
