package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KOFI-GYIMAH/github-tail/internal/config"
	"github.com/KOFI-GYIMAH/github-tail/internal/feed"
	"github.com/KOFI-GYIMAH/github-tail/internal/github"
	"github.com/KOFI-GYIMAH/github-tail/internal/queue"
	"github.com/KOFI-GYIMAH/github-tail/internal/service"
	"github.com/KOFI-GYIMAH/github-tail/internal/worker"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

// * newSearchClient is swapped in tests
var newSearchClient = func(token string) service.SearchClient {
	return github.NewClient(token)
}

func newUpdateCmd(cfg *config.Config) *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch repositories pushed since the last run and merge them into the feed",
		Example: `  ghtail update
  ghtail update --min-stars 50 --max-total 500 --out data/projects.json
  ghtail update --every 15m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyUpdateFlags(cmd, cfg)

			store, closeStore, err := feed.OpenStore(cfg, cfg.OutPath)
			if err != nil {
				return err
			}
			defer closeStore()

			svc := service.NewUpdaterService(newSearchClient(cfg.GitHubToken), store, service.UpdateOptions{
				MinStars:       cfg.MinStars,
				MaxResults:     cfg.MaxResults,
				MaxTotalStored: cfg.MaxTotalStored,
			})

			if cfg.RabbitMQURL != "" {
				rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
				if err != nil {
					logger.Warn("feed updates will not be announced: %v", err)
				} else {
					defer rabbitMQ.Close()
					svc.WithPublisher(rabbitMQ)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			task := func(ctx context.Context) error {
				result, err := svc.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: fetched %d, %d new, %d stored\n",
					result.Query, result.Fetched, result.New, len(result.Feed.Projects))
				return nil
			}

			if every <= 0 {
				return task(ctx)
			}

			logger.Info("updating every %s", every)
			worker.NewPeriodicWorker("update", every, task).Run(ctx)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int("min-stars", config.DefaultMinStars, "minimum stars for searched repositories")
	flags.Int("max-results", config.DefaultMaxResults, "repositories requested per run (at most 100)")
	flags.Int("max-total", config.DefaultMaxTotalStored, "repositories kept in the feed")
	flags.String("out", "", "feed file to write (defaults to the feed path)")
	flags.DurationVar(&every, "every", 0, "keep running, updating at this interval")

	return cmd
}

func applyUpdateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("min-stars") {
		cfg.MinStars, _ = flags.GetInt("min-stars")
	}
	if flags.Changed("max-results") {
		cfg.MaxResults, _ = flags.GetInt("max-results")
	}
	if flags.Changed("max-total") {
		cfg.MaxTotalStored, _ = flags.GetInt("max-total")
	}
	if flags.Changed("out") {
		cfg.OutPath, _ = flags.GetString("out")
	}
}
