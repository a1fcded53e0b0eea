package feed

import (
	"github.com/KOFI-GYIMAH/github-tail/internal/config"
	"github.com/KOFI-GYIMAH/github-tail/internal/db"
	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

func noopClose() error { return nil }

// * OpenStore returns the Postgres archive when DB_PATH is set (migrating it
// * first), otherwise the JSON file at path
func OpenStore(cfg *config.Config, path string) (models.FeedStore, func() error, error) {
	if cfg.DBURL == "" {
		logger.Debug("using feed file %s", path)
		return db.NewJSONFileStore(path), noopClose, nil
	}

	pg, err := db.NewPostgresDB(cfg.DBURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Migrate(cfg.MigrationsPath); err != nil {
		pg.Close()
		return nil, nil, err
	}
	logger.Info("Successfully ran migrations")
	return pg, pg.Close, nil
}

// * OpenSource picks where the feed is read from: FEED_URL, then the store
func OpenSource(cfg *config.Config) (Source, func() error, error) {
	if cfg.FeedURL != "" {
		logger.Debug("using feed endpoint %s", cfg.FeedURL)
		return NewHTTPSource(cfg.FeedURL), noopClose, nil
	}

	store, closeFn, err := OpenStore(cfg, cfg.FeedPath)
	if err != nil {
		return nil, nil, err
	}
	return NewStoreSource(store), closeFn, nil
}
