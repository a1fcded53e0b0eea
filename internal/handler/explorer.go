package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/KOFI-GYIMAH/github-tail/internal/explorer"
	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/pkg/errors"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

// * Catalog is the feed holder shared by every session
type Catalog interface {
	Current() *models.Feed
	LastError() error
	LoadedAt() time.Time
	Reload(ctx context.Context) (*models.Feed, error)
}

type ExplorerHandler struct {
	catalog  Catalog
	sessions *SessionStore
}

func NewExplorerHandler(catalog Catalog, sessions *SessionStore) *ExplorerHandler {
	return &ExplorerHandler{
		catalog:  catalog,
		sessions: sessions,
	}
}

func (h *ExplorerHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/feed", h.getFeed).Methods("GET")
	r.HandleFunc("/feed/reload", h.reloadFeed).Methods("POST")
	r.HandleFunc("/sessions", h.createSession).Methods("POST")
	r.HandleFunc("/sessions/{id}", h.getSession).Methods("GET")
	r.HandleFunc("/sessions/{id}/search", h.setSearch).Methods("PUT")
	r.HandleFunc("/sessions/{id}/min-stars", h.setMinStars).Methods("PUT")
	r.HandleFunc("/sessions/{id}/next", h.nextPage).Methods("POST")
	r.HandleFunc("/sessions/{id}/prev", h.previousPage).Methods("POST")
}

func writeSuccess(w http.ResponseWriter, data any, message ...string) {
	writeJSON(w, http.StatusOK, data, message...)
}

func writeJSON(w http.ResponseWriter, status int, data any, message ...string) {
	resp := APIResponse{
		Status: "success",
		Data:   data,
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func invalidRequest(err error) error {
	return errors.New(
		errors.RefInvalidRequest,
		"Invalid request body",
		"The body must be a JSON object",
		err,
		errors.LevelError,
	)
}

func (h *ExplorerHandler) feedInfo() FeedInfo {
	info := FeedInfo{}
	if err := h.catalog.LastError(); err != nil {
		info.Error = err.Error()
	}

	feed := h.catalog.Current()
	if feed == nil {
		return info
	}

	info.Loaded = true
	if loadedAt := h.catalog.LoadedAt(); !loadedAt.IsZero() {
		info.LoadedAt = &loadedAt
	}
	if feed.LastUpdated.Valid {
		t := feed.LastUpdated.Time.UTC()
		info.LastUpdated = &t
	}
	info.Count = feed.TotalCount()
	info.NewInThisRun = feed.NewInThisRun
	info.TotalAvailable = feed.TotalAvailable
	info.Source = feed.Source
	return info
}

// getFeed godoc
// @Summary Feed metadata
// @Description Metadata of the feed currently served to sessions
// @Tags Feed
// @Produce json
// @Success 200 {object} FeedInfo
// @Router /feed [get]
func (h *ExplorerHandler) getFeed(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.feedInfo(), "Successfully fetched feed metadata")
}

// reloadFeed godoc
// @Summary Reload feed
// @Description Fetches the feed again and pushes it to every live session. On failure the previous feed keeps being served.
// @Tags Feed
// @Produce json
// @Success 200 {object} FeedInfo
// @Failure 502 {object} errors.HTTPErrorResponse "Feed unavailable"
// @Router /feed/reload [post]
func (h *ExplorerHandler) reloadFeed(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalog.Reload(r.Context()); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	logger.Info("Reloaded feed for %d sessions", h.sessions.Len())
	writeSuccess(w, h.feedInfo(), "Feed reloaded")
}

// createSession godoc
// @Summary Create session
// @Description Starts a browsing session over the current feed
// @Tags Sessions
// @Produce json
// @Success 201 {object} SessionResponse
// @Router /sessions [post]
func (h *ExplorerHandler) createSession(w http.ResponseWriter, r *http.Request) {
	id, controller := h.sessions.Create(h.catalog)
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id, View: controller.View()}, "Session created")
}

// getSession godoc
// @Summary Get session view
// @Description Current page of the session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} errors.HTTPErrorResponse "Session not found"
// @Router /sessions/{id} [get]
func (h *ExplorerHandler) getSession(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(c *explorer.Controller) (explorer.View, error) {
		return c.View(), nil
	})
}

// setSearch godoc
// @Summary Set search term
// @Description Filters by a case-insensitive substring of name or description and returns to page 1
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SearchRequest true "Search term"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.HTTPErrorResponse "Invalid request"
// @Failure 404 {object} errors.HTTPErrorResponse "Session not found"
// @Router /sessions/{id}/search [put]
func (h *ExplorerHandler) setSearch(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(c *explorer.Controller) (explorer.View, error) {
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return explorer.View{}, invalidRequest(err)
		}
		return c.SetSearchTerm(req.Term), nil
	})
}

// setMinStars godoc
// @Summary Set minimum stars
// @Description Filters by a minimum star count. The value is parsed leniently: leading digits are used and anything else counts as 0.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body MinStarsRequest true "Minimum stars"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.HTTPErrorResponse "Invalid request"
// @Failure 404 {object} errors.HTTPErrorResponse "Session not found"
// @Router /sessions/{id}/min-stars [put]
func (h *ExplorerHandler) setMinStars(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(c *explorer.Controller) (explorer.View, error) {
		var req MinStarsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return explorer.View{}, invalidRequest(err)
		}
		return c.SetMinStars(string(req.Value)), nil
	})
}

// nextPage godoc
// @Summary Next page
// @Description Moves one page forward; no-op on the last page
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} errors.HTTPErrorResponse "Session not found"
// @Router /sessions/{id}/next [post]
func (h *ExplorerHandler) nextPage(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(c *explorer.Controller) (explorer.View, error) {
		return c.GoToNextPage(), nil
	})
}

// previousPage godoc
// @Summary Previous page
// @Description Moves one page back; no-op on page 1
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} errors.HTTPErrorResponse "Session not found"
// @Router /sessions/{id}/prev [post]
func (h *ExplorerHandler) previousPage(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(c *explorer.Controller) (explorer.View, error) {
		return c.GoToPreviousPage(), nil
	})
}

func (h *ExplorerHandler) apply(w http.ResponseWriter, r *http.Request, fn func(*explorer.Controller) (explorer.View, error)) {
	id := mux.Vars(r)["id"]

	controller, err := h.sessions.Get(id)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	view, err := fn(controller)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeSuccess(w, SessionResponse{ID: id, View: view})
}
