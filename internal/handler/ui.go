package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KOFI-GYIMAH/github-tail/internal/explorer"
	"github.com/KOFI-GYIMAH/github-tail/internal/render"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

// * UIHandler serves the server-rendered listing. Every form posts back and
// * redirects to the page, so reloading the browser never resubmits.
type UIHandler struct {
	catalog  Catalog
	sessions *SessionStore
	html     *render.HTML
	locale   string
}

func NewUIHandler(catalog Catalog, sessions *SessionStore, html *render.HTML, locale string) *UIHandler {
	return &UIHandler{
		catalog:  catalog,
		sessions: sessions,
		html:     html,
		locale:   locale,
	}
}

func (h *UIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.start).Methods("GET")
	r.HandleFunc("/ui/{id}", h.page).Methods("GET")
	r.HandleFunc("/ui/{id}/filters", h.filters).Methods("POST")
	r.HandleFunc("/ui/{id}/next", h.next).Methods("POST")
	r.HandleFunc("/ui/{id}/prev", h.previous).Methods("POST")
	r.HandleFunc("/ui/{id}/reload", h.reload).Methods("POST")
}

func pagePath(id string) string {
	return "/ui/" + id
}

func (h *UIHandler) start(w http.ResponseWriter, r *http.Request) {
	id, _ := h.sessions.Create(h.catalog)
	http.Redirect(w, r, pagePath(id), http.StatusSeeOther)
}

func (h *UIHandler) page(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	controller, err := h.sessions.Get(id)
	if err != nil {
		// * expired sessions simply start over
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = h.html.Render(w, render.Page{
		Locale: h.locale,
		Base:   pagePath(id),
		View:   controller.View(),
	})
	if err != nil {
		logger.Error("failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func (h *UIHandler) filters(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *explorer.Controller) {
		if err := r.ParseForm(); err != nil {
			return
		}
		c.SetSearchTerm(r.PostFormValue("q"))
		c.SetMinStars(r.PostFormValue("min_stars"))
	})
}

func (h *UIHandler) next(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *explorer.Controller) { c.GoToNextPage() })
}

func (h *UIHandler) previous(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *explorer.Controller) { c.GoToPreviousPage() })
}

// * reload errors reach the page through the catalog broadcast
func (h *UIHandler) reload(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(*explorer.Controller) {
		if _, err := h.catalog.Reload(r.Context()); err != nil {
			logger.Warn("reload from page failed: %v", err)
		}
	})
}

func (h *UIHandler) act(w http.ResponseWriter, r *http.Request, fn func(*explorer.Controller)) {
	id := mux.Vars(r)["id"]
	controller, err := h.sessions.Get(id)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	fn(controller)
	http.Redirect(w, r, pagePath(id), http.StatusSeeOther)
}
