package handler

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KOFI-GYIMAH/github-tail/internal/explorer"
	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/pkg/errors"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

type session struct {
	controller *explorer.Controller
	lastSeen   time.Time
}

// * SessionStore owns one explorer controller per browser or API client
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*session
	ttl       time.Duration
	formatter *explorer.Formatter
	now       func() time.Time
}

func NewSessionStore(ttl time.Duration, formatter *explorer.Formatter) *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]*session),
		ttl:       ttl,
		formatter: formatter,
		now:       time.Now,
	}
}

// * FeedSnapshot is the part of the catalog a new session starts from
type FeedSnapshot interface {
	Current() *models.Feed
	LastError() error
}

// * Create starts a session from the current feed, or from the last load error
// * when no feed is available yet. The snapshot is taken under the store lock so
// * a concurrent Broadcast either reaches the new session or is already in it.
func (s *SessionStore) Create(src FeedSnapshot) (string, *explorer.Controller) {
	controller := explorer.NewController(explorer.WithFormatter(s.formatter))
	id := uuid.NewString()

	s.mu.Lock()
	feed, loadErr := src.Current(), src.LastError()
	switch {
	case feed != nil:
		controller.LoadCollection(feed)
	case loadErr != nil:
		controller.LoadFailed(loadErr)
	}
	s.sessions[id] = &session{controller: controller, lastSeen: s.now()}
	s.mu.Unlock()

	logger.Debug("created session %s", id)
	return id, controller
}

func (s *SessionStore) Get(id string) (*explorer.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.New(
			errors.RefSessionNotFound,
			"Session not found",
			fmt.Sprintf("No session with id %q; it may have expired", id),
			nil,
			errors.LevelInfo,
		)
	}
	sess.lastSeen = s.now()
	return sess.controller, nil
}

// * Broadcast applies a catalog reload outcome to every live session
func (s *SessionStore) Broadcast(feed *models.Feed, err error) {
	s.mu.Lock()
	controllers := make([]*explorer.Controller, 0, len(s.sessions))
	for _, sess := range s.sessions {
		controllers = append(controllers, sess.controller)
	}
	s.mu.Unlock()

	for _, c := range controllers {
		if err != nil {
			c.LoadFailed(err)
		} else {
			c.LoadCollection(feed)
		}
	}
	logger.Debug("broadcast reload to %d sessions", len(controllers))
}

// * Sweep drops sessions idle for longer than the ttl and returns how many went
func (s *SessionStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Info("🧹 Expired %d idle sessions", removed)
	}
	return removed
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
