package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/KOFI-GYIMAH/github-tail/docs"
	"github.com/KOFI-GYIMAH/github-tail/internal/config"
	"github.com/KOFI-GYIMAH/github-tail/internal/explorer"
	"github.com/KOFI-GYIMAH/github-tail/internal/feed"
	"github.com/KOFI-GYIMAH/github-tail/internal/handler"
	md "github.com/KOFI-GYIMAH/github-tail/internal/middleware"
	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/internal/queue"
	"github.com/KOFI-GYIMAH/github-tail/internal/render"
	"github.com/KOFI-GYIMAH/github-tail/internal/worker"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

// @title GitHub Tail Service
// @version 1.0.0
// @description Searchable, paginated listing of recently updated GitHub repositories.
// @host localhost:8081
// @BasePath /v1
func main() {
	// * Load configuration
	cfg, err := config.LoadConfiguration()
	if err != nil {
		logger.Error("‼️ Failed to load config: %v", err)
		os.Exit(1)
	}
	if cfg.Debug {
		logger.SetLevel(logger.LevelDebug)
	}

	// * Pick the feed source (endpoint, Postgres archive or JSON file)
	source, closeSource, err := feed.OpenSource(cfg)
	if err != nil {
		logger.Error("Failed to open feed source: %v", err)
		os.Exit(1)
	}
	defer closeSource()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	formatter := explorer.NewFormatter(cfg.Locale, time.UTC)
	catalog := feed.NewCatalog(source)
	sessions := handler.NewSessionStore(cfg.SessionTTL, formatter)
	catalog.Subscribe(sessions.Broadcast)

	if _, err := catalog.Reload(ctx); err != nil {
		logger.Warn("initial feed load failed, serving an empty listing: %v", err)
	}

	// * Background workers
	if cfg.RefreshInterval > 0 {
		refresher := worker.NewPeriodicWorker("feed refresh", cfg.RefreshInterval, func(ctx context.Context) error {
			_, err := catalog.Reload(ctx)
			return err
		})
		go refresher.Loop(ctx)
	}

	sweeper := worker.NewPeriodicWorker("session sweep", cfg.SessionTTL/2, func(ctx context.Context) error {
		sessions.Sweep()
		return nil
	})
	go sweeper.Loop(ctx)

	// * Reload whenever the updater announces a new feed
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("Failed to initialize RabbitMQ, feed updates will not be pushed: %v", err)
		} else {
			defer rabbitMQ.Close()
			err = rabbitMQ.ConsumeFeedUpdates(ctx, func(update models.FeedUpdate) error {
				logger.Info("📬 Feed update announced (%d repositories, %d new)", update.Count, update.NewInThisRun)
				_, err := catalog.Reload(ctx)
				return err
			})
			if err != nil {
				logger.Error("Failed to consume feed updates: %v", err)
			}
		}
	}

	html, err := render.NewHTML()
	if err != nil {
		logger.Error("Failed to parse page template: %v", err)
		os.Exit(1)
	}

	// * Create API server
	router := mux.NewRouter()
	router.Use(md.RecoverMiddleware, md.LoggingMiddleware)

	api := router.PathPrefix("/v1").Subrouter()
	handler.NewExplorerHandler(catalog, sessions).RegisterRoutes(api)
	router.PathPrefix("/v1/swagger/").Handler(httpSwagger.WrapHandler)
	handler.NewUIHandler(catalog, sessions, html, formatter.Locale()).RegisterRoutes(router)

	server := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting API server on %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server error: %v", err)
			os.Exit(1)
		}
	}()

	// * Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed: %v", err)
	}
}
