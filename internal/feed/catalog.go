package feed

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

// * reloadTimeout bounds a shared load once it no longer follows its caller
const reloadTimeout = 2 * time.Minute

// * Listener is told about every reload outcome; feed is nil when err is set
type Listener func(feed *models.Feed, err error)

// * Catalog holds the most recently loaded feed. Overlapping reloads share the
// * load already in flight.
type Catalog struct {
	source Source
	group  singleflight.Group

	mu        sync.RWMutex
	current   *models.Feed
	lastErr   error
	loadedAt  time.Time
	listeners []Listener
}

func NewCatalog(source Source) *Catalog {
	return &Catalog{source: source}
}

// * Current is the last successfully loaded feed, nil before the first success
func (c *Catalog) Current() *models.Feed {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Catalog) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

func (c *Catalog) Subscribe(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// * Reload fetches the feed again. On failure the previous feed stays current.
// * The load is shared by every caller, so it keeps running when ctx is
// * cancelled; the cancelled caller just stops waiting for it.
func (c *Catalog) Reload(ctx context.Context) (*models.Feed, error) {
	ch := c.group.DoChan("reload", func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reloadTimeout)
		defer cancel()
		return c.load(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			logger.Debug("reload joined an in-flight load")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Feed), nil
	}
}

func (c *Catalog) load(ctx context.Context) (*models.Feed, error) {
	feed, err := c.source.Load(ctx)

	c.mu.Lock()
	if err != nil {
		c.lastErr = err
	} else {
		c.current = feed
		c.lastErr = nil
		c.loadedAt = time.Now().UTC()
	}
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	if err != nil {
		logger.Warn("feed reload failed: %v", err)
	} else {
		logger.Info("📦 Loaded %d repositories", len(feed.Projects))
	}

	for _, fn := range listeners {
		fn(feed, err)
	}

	if err != nil {
		return nil, err
	}
	return feed, nil
}
