package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/desertthunder/cinelist/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive movie browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.LogPath()
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLevel(r.config.Logging.Level))
	r.SetLogger(shared.WithLogger(fileLogger, "component", "tui"))
	r.logger.Info("starting TUI", "log", logPath)

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	sortMode, ok := models.ParseSortMode(r.config.UI.DefaultSort)
	if !ok {
		sortMode = models.SortTitleAsc
	}

	return ui.Run(ctx, ui.Options{
		Catalog:   catalog,
		Favorites: r.favoritesManager(),
		Sorter:    r.sorter,
		SortMode:  sortMode,
		ImageURL:  r.config.TMDB.ImageURL,
		OpenURL:   shared.OpenBrowser,
		Logger:    r.logger,
	})
}
