package cli

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/KOFI-GYIMAH/github-tail/internal/config"
	"github.com/KOFI-GYIMAH/github-tail/internal/explorer"
	"github.com/KOFI-GYIMAH/github-tail/internal/feed"
	"github.com/KOFI-GYIMAH/github-tail/internal/tui"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

func newBrowseCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Search and page through the feed in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, closeSource, err := feed.OpenSource(cfg)
			if err != nil {
				return err
			}
			defer closeSource()

			// * the TUI owns the terminal
			logger.SetOutput(io.Discard)
			defer logger.SetOutput(nil)

			model := tui.NewModel(cmd.Context(), source.Load, explorer.NewFormatter(cfg.Locale, time.Local))
			_, err = tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}
