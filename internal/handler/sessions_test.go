package handler

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/pkg/errors"
)

type snapshot struct {
	feed *models.Feed
	err  error
}

func (s snapshot) Current() *models.Feed { return s.feed }
func (s snapshot) LastError() error      { return s.err }

// reloadingSnapshot hands out the old feed while a reload broadcast races the
// session's registration
type reloadingSnapshot struct {
	store *SessionStore
	old   *models.Feed
	next  *models.Feed
	done  chan struct{}
}

func (s reloadingSnapshot) Current() *models.Feed {
	go func() {
		defer close(s.done)
		s.store.Broadcast(s.next, nil)
	}()
	return s.old
}

func (s reloadingSnapshot) LastError() error { return nil }

func TestSessionStore_CreateSeesReloadDuringRegistration(t *testing.T) {
	store := NewSessionStore(time.Minute, nil)
	src := reloadingSnapshot{store: store, old: feedOf(3, 0), next: feedOf(60, 0), done: make(chan struct{})}

	_, controller := store.Create(src)

	select {
	case <-src.done:
	case <-time.After(time.Second):
		t.Fatal("broadcast never finished")
	}
	assert.Equal(t, 60, controller.View().Matches)
}

func TestSessionStore_SweepExpiresIdleSessions(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(30*time.Minute, nil)
	store.now = func() time.Time { return now }

	idle, _ := store.Create(snapshot{feed: feedOf(3, 0)})
	active, _ := store.Create(snapshot{feed: feedOf(3, 0)})

	now = now.Add(20 * time.Minute)
	_, err := store.Get(active)
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	_, err = store.Get(idle)
	assert.True(t, errors.Is(err, errors.RefSessionNotFound))
	_, err = store.Get(active)
	assert.NoError(t, err)
}

func TestSessionStore_CreateFromError(t *testing.T) {
	store := NewSessionStore(time.Minute, nil)
	id, controller := store.Create(snapshot{err: fmt.Errorf("boom")})

	assert.NotEmpty(t, id)
	assert.Equal(t, "Could not load repositories: boom", controller.View().Error)
}

func TestSessionStore_Broadcast(t *testing.T) {
	store := NewSessionStore(time.Minute, nil)
	_, a := store.Create(snapshot{})
	_, b := store.Create(snapshot{feed: feedOf(3, 0)})

	store.Broadcast(feedOf(60, 0), nil)
	assert.Equal(t, 60, a.View().Matches)
	assert.Equal(t, 60, b.View().Matches)

	store.Broadcast(nil, fmt.Errorf("gone"))
	assert.Equal(t, 60, a.View().Matches)
	assert.Contains(t, b.View().Error, "gone")
}

func TestRawInput(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"value": "12"}`, "12"},
		{`{"value": 12}`, "12"},
		{`{"value": -4}`, "-4"},
		{`{"value": null}`, ""},
		{`{}`, ""},
	}
	for _, tt := range tests {
		var req MinStarsRequest
		require.NoError(t, json.Unmarshal([]byte(tt.body), &req), tt.body)
		assert.Equal(t, tt.want, string(req.Value), tt.body)
	}
}
