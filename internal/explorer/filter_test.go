package explorer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
)

func TestFilter_SearchMatchesNameOrDescription(t *testing.T) {
	toolkit := repo("toolkit", 5, "A helper")
	app := repo("app", 5, "utility belt")
	collection := []models.Repository{toolkit, app}

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"name match", "kit", []string{"acme/toolkit"}},
		{"description match", "belt", []string{"acme/app"}},
		{"case insensitive", "  HeLPer ", []string{"acme/toolkit"}},
		{"owner part of full name", "acme/", []string{"acme/toolkit", "acme/app"}},
		{"empty term", "", []string{"acme/toolkit", "acme/app"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(collection, tt.term, 0)
			names := make([]string, 0, len(got))
			for _, r := range got {
				names = append(names, r.DisplayName())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFilter_FallsBackToNameWithoutFullName(t *testing.T) {
	r := models.Repository{Name: "Toolkit"}
	assert.Len(t, Filter([]models.Repository{r}, "tool", 0), 1)
}

func TestFilter_MissingFieldsNeverPanic(t *testing.T) {
	collection := []models.Repository{{}, {Name: "bare"}}

	assert.Len(t, Filter(collection, "", 0), 2)
	assert.Len(t, Filter(collection, "bare", 0), 1)
	assert.Empty(t, Filter(collection, "", 1))
}

func TestFilter_StarThreshold(t *testing.T) {
	collection := append(repos(27, 10), repo("a", 100, ""), repo("b", 100, ""), repo("c", 100, ""))

	got := Filter(collection, "", 50)
	assert.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "c", got[2].Name)
}

func TestFilter_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"kit", "tool", "Cli", "web", "data", ""}

	for round := 0; round < 200; round++ {
		collection := make([]models.Repository, rng.Intn(60))
		for i := range collection {
			collection[i] = repo(words[rng.Intn(len(words))]+"x", rng.Intn(200), words[rng.Intn(len(words))])
		}
		term := words[rng.Intn(len(words))]
		minStars := rng.Intn(200)

		got := Filter(collection, term, minStars)
		norm := strings.ToLower(term)

		// every result satisfies both predicates, in collection order
		next := 0
		for _, r := range got {
			assert.GreaterOrEqual(t, r.Stars(), minStars)
			assert.True(t, norm == "" ||
				strings.Contains(strings.ToLower(r.DisplayName()), norm) ||
				strings.Contains(strings.ToLower(r.DescriptionText()), norm))
			for next < len(collection) && collection[next].Name != r.Name {
				next++
			}
			assert.Less(t, next, len(collection), "result out of order")
			next++
		}

		// every satisfying record is present
		want := 0
		for _, r := range collection {
			if Matches(r, norm, minStars) {
				want++
			}
		}
		assert.Len(t, got, want)

		assert.Equal(t, got, Filter(collection, term, minStars))
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	collection := []models.Repository{repo("b", 1, ""), repo("a", 2, "")}
	got := Filter(collection, "", 2)
	got[0].Name = "changed"

	assert.Equal(t, "b", collection[0].Name)
	assert.Equal(t, "a", collection[1].Name)
}

func TestParseMinStars(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"50", 50},
		{" 50 ", 50},
		{"+7", 7},
		{"12abc", 12},
		{"abc", 0},
		{"-5", 0},
		{"+", 0},
		{"3.9", 3},
		{"٣", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMinStars(tt.raw))
		})
	}
}
