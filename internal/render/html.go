package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/KOFI-GYIMAH/github-tail/internal/explorer"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const DefaultTitle = "GitHub Tail"

// * Page is everything the listing template needs
type Page struct {
	Title  string
	Locale string
	// * Base is the path the page's forms post to, e.g. /ui/{id}
	Base string
	View explorer.View
}

type HTML struct {
	tmpl *template.Template
}

func NewHTML() (*HTML, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &HTML{tmpl: tmpl}, nil
}

// * Render writes the page to w. Output is buffered so a template error never
// * leaves a half-written response.
func (h *HTML) Render(w io.Writer, page Page) error {
	if page.Title == "" {
		page.Title = DefaultTitle
	}
	if page.Locale == "" {
		page.Locale = "en"
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "page.html.tmpl", page); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
