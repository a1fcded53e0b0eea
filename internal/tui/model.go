package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KOFI-GYIMAH/github-tail/internal/explorer"
	"github.com/KOFI-GYIMAH/github-tail/internal/models"
)

// Loader fetches the feed; it runs off the event loop.
type Loader func(ctx context.Context) (*models.Feed, error)

type field int

const (
	fieldSearch field = iota
	fieldMinStars
)

// loadedMsg carries the outcome of a Loader call back to Update.
type loadedMsg struct {
	feed *models.Feed
	err  error
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	bannerStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	nameStyle    = lipgloss.NewStyle().Bold(true)
	starStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	descStyle    = lipgloss.NewStyle().Faint(true).PaddingLeft(2)
	focusedLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	blurredLabel = lipgloss.NewStyle().Faint(true)
	helpStyle    = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

// Model is the terminal front end over one explorer.Controller.
type Model struct {
	ctx        context.Context
	load       Loader
	controller *explorer.Controller
	view       explorer.View

	search   textinput.Model
	minStars textinput.Model
	focus    field

	loading  bool
	quitting bool
	width    int
}

// NewModel builds the model. The controller's renderer keeps m.view current.
func NewModel(ctx context.Context, load Loader, formatter *explorer.Formatter) *Model {
	m := &Model{ctx: ctx, load: load}

	m.controller = explorer.NewController(
		explorer.WithFormatter(formatter),
		explorer.WithRenderer(explorer.RendererFunc(func(v explorer.View) {
			m.view = v
		})),
	)
	m.view = m.controller.View()

	m.search = textinput.New()
	m.search.Placeholder = "name or description"
	m.search.Prompt = ""
	m.search.Focus()

	m.minStars = textinput.New()
	m.minStars.Placeholder = "0"
	m.minStars.Prompt = ""
	m.minStars.CharLimit = 10
	m.minStars.Width = 8

	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.reload())
}

func (m *Model) reload() tea.Cmd {
	m.loading = true
	ctx, load := m.ctx, m.load
	return func() tea.Msg {
		feed, err := load(ctx)
		return loadedMsg{feed: feed, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.controller.LoadFailed(msg.err)
			return m, nil
		}
		m.controller.LoadCollection(msg.feed)
		// * a load resets the filters; mirror that in the inputs
		m.search.SetValue(m.view.SearchTerm)
		m.minStars.SetValue(strconv.Itoa(m.view.MinStars))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "shift+tab":
		m.toggleFocus()
		return m, nil
	case "pgdown", "ctrl+n":
		m.controller.GoToNextPage()
		return m, nil
	case "pgup", "ctrl+p":
		m.controller.GoToPreviousPage()
		return m, nil
	case "ctrl+r":
		if m.loading {
			return m, nil
		}
		return m, m.reload()
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldSearch:
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.controller.SetSearchTerm(m.search.Value())
		}
	case fieldMinStars:
		before := m.minStars.Value()
		m.minStars, cmd = m.minStars.Update(msg)
		if m.minStars.Value() != before {
			m.controller.SetMinStars(m.minStars.Value())
		}
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == fieldSearch {
		m.focus = fieldMinStars
		m.search.Blur()
		m.minStars.Focus()
		return
	}
	m.focus = fieldSearch
	m.minStars.Blur()
	m.search.Focus()
}

// View returns the current listing.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	v := m.view

	b.WriteString(titleStyle.Render("GitHub Tail"))
	b.WriteString("\n")
	b.WriteString(bannerStyle.Render(v.LastUpdated + " · " + v.TotalCount))
	b.WriteString("\n")
	if m.loading {
		b.WriteString(bannerStyle.Render("Loading…"))
		b.WriteString("\n")
	}
	if v.Error != "" {
		b.WriteString(errorStyle.Render(v.Error))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.label("Search", fieldSearch))
	b.WriteString(m.search.View())
	b.WriteString("   ")
	b.WriteString(m.label("Min ★", fieldMinStars))
	b.WriteString(m.minStars.View())
	b.WriteString("\n\n")

	if v.Empty {
		b.WriteString(bannerStyle.Render(v.Placeholder))
		b.WriteString("\n")
	}
	for _, item := range v.Items {
		b.WriteString(renderItem(item, m.width))
	}

	b.WriteString("\n")
	b.WriteString(v.PageStatus)
	b.WriteString(helpStyle.Render("\ntab switch field · pgup/pgdown page · ctrl+r reload · esc quit"))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) label(text string, f field) string {
	if m.focus == f {
		return focusedLabel.Render(text+": ")
	}
	return blurredLabel.Render(text+": ")
}

func renderItem(item explorer.ItemView, width int) string {
	line := fmt.Sprintf("%s %s  %s  %s",
		starStyle.Render("★ "+item.StarsText),
		nameStyle.Render(item.Name),
		item.Language,
		bannerStyle.Render(item.Updated),
	)

	desc := item.Description
	if width > 8 && lipgloss.Width(desc) > width-4 {
		desc = truncate(desc, width-5) + "…"
	}
	return line + "\n" + descStyle.Render(desc) + "\n"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if n < 0 {
		n = 0
	}
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
