package explorer

import (
	"sync"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
)

// Renderer receives the view after every transition.
type Renderer interface {
	Render(v View)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }

type Option func(*Controller)

func WithRenderer(r Renderer) Option {
	return func(c *Controller) {
		c.renderer = r
	}
}

func WithFormatter(f *Formatter) Option {
	return func(c *Controller) {
		c.formatter = f
	}
}

// Controller owns one session's State. Events are applied one at a time.
type Controller struct {
	mu        sync.Mutex
	state     State
	formatter *Formatter
	renderer  Renderer
}

func NewController(opts ...Option) *Controller {
	c := &Controller{state: NewState()}
	for _, opt := range opts {
		opt(c)
	}
	if c.formatter == nil {
		c.formatter = NewFormatter("en", nil)
	}
	return c
}

// Dispatch applies ev, renders, and returns the resulting view.
func (c *Controller) Dispatch(ev Event) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Transition(c.state, ev)
	v := Project(c.state, c.formatter)
	if c.renderer != nil {
		c.renderer.Render(v)
	}
	return v
}

func (c *Controller) LoadCollection(feed *models.Feed) View {
	return c.Dispatch(CollectionLoaded{Feed: feed})
}

func (c *Controller) LoadFailed(err error) View {
	return c.Dispatch(LoadFailed{Err: err})
}

func (c *Controller) SetSearchTerm(term string) View {
	return c.Dispatch(SearchChanged{Term: term})
}

func (c *Controller) SetMinStars(raw string) View {
	return c.Dispatch(MinStarsChanged{Raw: raw})
}

func (c *Controller) GoToPreviousPage() View {
	return c.Dispatch(PreviousPage{})
}

func (c *Controller) GoToNextPage() View {
	return c.Dispatch(NextPage{})
}

// View projects the current state without transitioning or rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Project(c.state, c.formatter)
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
