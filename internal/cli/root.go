package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/KOFI-GYIMAH/github-tail/internal/config"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

// * NewRootCmd builds the ghtail command tree. Configuration comes from the
// * environment (.env included) and is overridden by flags.
func NewRootCmd(version string) *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "ghtail",
		Short:         "Tail recently updated GitHub repositories",
		Long:          "ghtail keeps a feed of recently pushed GitHub repositories and lets you search and page through it.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.LoadConfiguration()
			if err != nil {
				return err
			}
			*cfg = *loaded
			applyPersistentFlags(cmd, cfg)

			if cfg.Debug {
				logger.SetLevel(logger.LevelDebug)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.Bool("debug", false, "enable debug logging")
	flags.String("locale", "", "locale for dates and numbers (en, es, de, fr, pt)")
	flags.String("feed-url", "", "read the feed from this JSON endpoint")
	flags.String("feed-path", "", "read the feed from this JSON file")
	flags.String("db", "", "Postgres URL of the feed archive")

	cmd.AddCommand(newUpdateCmd(cfg))
	cmd.AddCommand(newBrowseCmd(cfg))

	return cmd
}

func applyPersistentFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("locale") {
		cfg.Locale, _ = flags.GetString("locale")
	}
	if flags.Changed("feed-url") {
		cfg.FeedURL, _ = flags.GetString("feed-url")
	}
	if flags.Changed("feed-path") {
		cfg.FeedPath, _ = flags.GetString("feed-path")
		if os.Getenv("OUT_PATH") == "" {
			cfg.OutPath = cfg.FeedPath
		}
	}
	if flags.Changed("db") {
		cfg.DBURL, _ = flags.GetString("db")
	}
}
