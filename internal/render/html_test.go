package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOFI-GYIMAH/github-tail/internal/explorer"
)

func renderString(t *testing.T, page Page) string {
	t.Helper()
	h, err := NewHTML()
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, h.Render(&b, page))
	return b.String()
}

func TestHTML_RendersItems(t *testing.T) {
	view := explorer.View{
		Items: []explorer.ItemView{
			{
				Owner:       &explorer.OwnerView{Login: "acme", URL: "https://github.com/acme", AvatarURL: "https://avatars/acme.png"},
				Name:        "acme/tail",
				URL:         "https://github.com/acme/tail",
				Description: "<script>alert(1)</script>",
				StarsText:   "1,200",
				Language:    "Go",
				Updated:     "May 1, 2024 12:00 PM",
			},
			{
				Name:        "bare",
				Description: explorer.NoDescription,
				StarsText:   "0",
				Language:    explorer.Unknown,
				Updated:     explorer.Unknown,
			},
		},
		Page:        1,
		TotalPages:  2,
		PageStatus:  "Page 1 of 2",
		HasNext:     true,
		SearchTerm:  "tail",
		MinStars:    10,
		LastUpdated: "Last updated: May 1, 2024 12:00 PM",
		TotalCount:  "200 repositories (7 new in this run)",
	}

	out := renderString(t, Page{Base: "/ui/abc", View: view})

	assert.Contains(t, out, "<title>GitHub Tail</title>")
	assert.Contains(t, out, `action="/ui/abc/filters"`)
	assert.Contains(t, out, `value="tail"`)
	assert.Contains(t, out, "acme/tail")
	assert.Contains(t, out, `src="https://avatars/acme.png"`)
	assert.Contains(t, out, "★ 1,200 · Go")
	assert.Contains(t, out, "Page 1 of 2")
	assert.Contains(t, out, "200 repositories (7 new in this run)")
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, `<button type="submit" disabled>Previous</button>`)
	assert.Contains(t, out, `<button type="submit">Next</button>`)
	assert.Equal(t, 1, strings.Count(out, `class="owner"`))
}

func TestHTML_EmptyAndError(t *testing.T) {
	view := explorer.View{
		Empty:       true,
		Placeholder: explorer.NoResults,
		Page:        1,
		TotalPages:  1,
		PageStatus:  "Page 1 of 1",
		Error:       "Could not load repositories: timeout",
	}

	out := renderString(t, Page{Base: "/ui/x", Locale: "es", View: view})

	assert.Contains(t, out, `<html lang="es">`)
	assert.Contains(t, out, explorer.NoResults)
	assert.Contains(t, out, "Could not load repositories: timeout")
	assert.NotContains(t, out, `<ul class="repos">`)
	assert.Contains(t, out, `<button type="submit" disabled>Next</button>`)
}
