package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_DecodeTolerant(t *testing.T) {
	raw := `{
		"name": "toolkit",
		"full_name": null,
		"description": null,
		"stargazers_count": null,
		"language": null,
		"updated_at": "not-a-date",
		"pushed_at": 12,
		"html_url": "https://github.com/acme/toolkit",
		"owner": null
	}`

	var repo Repository
	require.NoError(t, json.Unmarshal([]byte(raw), &repo))

	assert.Equal(t, "toolkit", repo.DisplayName())
	assert.Equal(t, "", repo.DescriptionText())
	assert.Equal(t, 0, repo.Stars())
	assert.Nil(t, repo.Language)
	assert.False(t, repo.UpdatedAt.Valid)
	assert.False(t, repo.PushedAt.Valid)
	assert.Nil(t, repo.Owner)
}

func TestOptionalTime_Layouts(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
		want  time.Time
	}{
		{"2024-03-05T10:20:30Z", true, time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{"2024-03-05T10:20:30.123456+00:00", true, time.Date(2024, 3, 5, 10, 20, 30, 123456000, time.UTC)},
		{"2024-03-05", true, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"yesterday", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseOptionalTime(tt.in)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.True(t, tt.want.Equal(got.Time))
			}
		})
	}
}

func TestOptionalTime_MarshalNull(t *testing.T) {
	b, err := json.Marshal(struct {
		At OptionalTime `json:"at"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":null}`, string(b))
}

func TestRepository_StarsNegative(t *testing.T) {
	repo := Repository{StargazersCount: Ptr(-3)}
	assert.Equal(t, 0, repo.Stars())
}

func TestFeed_Fallbacks(t *testing.T) {
	var nilFeed *Feed
	assert.Equal(t, 0, nilFeed.TotalCount())
	assert.Equal(t, 0, nilFeed.MinStarsHint())

	feed := &Feed{Projects: make([]Repository, 4)}
	assert.Equal(t, 4, feed.TotalCount())

	feed.Count = Ptr(120)
	feed.Source = &FeedSource{MinStars: Ptr(25)}
	assert.Equal(t, 120, feed.TotalCount())
	assert.Equal(t, 25, feed.MinStarsHint())
}
