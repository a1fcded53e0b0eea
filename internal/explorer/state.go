package explorer

import "github.com/KOFI-GYIMAH/github-tail/internal/models"

// Criteria are the two user-controlled predicates. SearchTerm is kept as
// typed; Filter normalizes it.
type Criteria struct {
	SearchTerm string
	MinStars   int
}

// State is everything one listing session owns.
type State struct {
	Feed       *models.Feed
	Collection []models.Repository
	Criteria   Criteria
	Filtered   []models.Repository
	Page       int
	LoadError  string
}

// NewState is the state before any collection arrives: an empty listing on
// page 1 of 1.
func NewState() State {
	return State{
		Collection: []models.Repository{},
		Filtered:   []models.Repository{},
		Page:       1,
	}
}

func (s State) TotalPages() int {
	return TotalPages(len(s.Filtered), PageSize)
}

func (s State) PageItems() []models.Repository {
	items, _ := Paginate(s.Filtered, s.Page, PageSize)
	return items
}

// Event is an input to Transition.
type Event interface {
	isEvent()
}

// CollectionLoaded replaces the collection. A nil feed is an empty one.
type CollectionLoaded struct {
	Feed *models.Feed
}

// LoadFailed records a failed (re)load; the current listing stays.
type LoadFailed struct {
	Err error
}

type SearchChanged struct {
	Term string
}

// MinStarsChanged carries the raw field text; it is parsed permissively.
type MinStarsChanged struct {
	Raw string
}

type PreviousPage struct{}

type NextPage struct{}

func (CollectionLoaded) isEvent() {}
func (LoadFailed) isEvent()       {}
func (SearchChanged) isEvent()    {}
func (MinStarsChanged) isEvent()  {}
func (PreviousPage) isEvent()     {}
func (NextPage) isEvent()         {}

// Transition applies ev to s and returns the next state. Page is always within
// 1..TotalPages of the returned state's filtered subset.
func Transition(s State, ev Event) State {
	switch ev := ev.(type) {
	case CollectionLoaded:
		s.Feed = ev.Feed
		s.Collection = []models.Repository{}
		if ev.Feed != nil && ev.Feed.Projects != nil {
			s.Collection = ev.Feed.Projects
		}
		s.Criteria = Criteria{MinStars: ev.Feed.MinStarsHint()}
		s.Filtered = Filter(s.Collection, s.Criteria.SearchTerm, s.Criteria.MinStars)
		s.Page = 1
		s.LoadError = ""

	case LoadFailed:
		s.LoadError = "Could not load repositories"
		if ev.Err != nil {
			s.LoadError += ": " + ev.Err.Error()
		}

	case SearchChanged:
		s.Criteria.SearchTerm = ev.Term
		s.Filtered = Filter(s.Collection, s.Criteria.SearchTerm, s.Criteria.MinStars)
		s.Page = 1

	case MinStarsChanged:
		s.Criteria.MinStars = ParseMinStars(ev.Raw)
		s.Filtered = Filter(s.Collection, s.Criteria.SearchTerm, s.Criteria.MinStars)
		s.Page = 1

	case PreviousPage:
		if s.Page > 1 {
			s.Page--
		}

	case NextPage:
		if s.Page < s.TotalPages() {
			s.Page++
		}
	}

	if s.Filtered == nil {
		s.Filtered = []models.Repository{}
	}
	s.Page = ClampPage(s.Page, len(s.Filtered), PageSize)
	return s
}
