package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/cinelist/internal/favorites"
	"github.com/desertthunder/cinelist/internal/formatter"
	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/desertthunder/cinelist/internal/tasks"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the favorites, optionally filtered and sorted.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	mode, err := parseSort(cmd.String("sort"))
	if err != nil {
		return err
	}

	movies := r.favoritesManager().Favorites()
	if filter := shared.NormalizeQuery(cmd.String("filter")); filter != "" {
		movies = filterMovies(movies, filter)
	}
	if mode != "" {
		movies = r.sorter.Sort(movies, mode)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(movies)))
	if len(movies) == 0 {
		return r.writePlain("No favorites yet. Add one with 'cinelist favorites add <id>'.\n")
	}
	return formatter.WriteTable(r.output, movies, nil)
}

// FavoritesAdd fetches a movie and adds it to the favorites.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	favs := r.favoritesManager()
	if favs.IsFavorited(id) {
		return r.writePlain("Movie %d is already a favorite\n", id)
	}

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	movie, err := catalog.Details(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load movie %d: %w", id, err)
	}

	favs.Add(*movie)
	r.logger.Info("added favorite", "id", movie.ID, "title", movie.Title)
	return r.writePlain("★ Added %s (%s)\n", movie.Title, movie.Year())
}

// FavoritesRemove removes a movie from the favorites.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	favs := r.favoritesManager()
	title := ""
	for _, m := range favs.Favorites() {
		if m.ID == id {
			title = m.Title
			break
		}
	}

	favs.Remove(id)

	if title == "" {
		return r.writePlain("Movie %d is not a favorite\n", id)
	}
	r.logger.Info("removed favorite", "id", id, "title", title)
	return r.writePlain("Removed %s\n", title)
}

// FavoritesExport writes the favorites to a file in the requested format.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	mode, err := parseSort(cmd.String("sort"))
	if err != nil {
		return err
	}

	movies := r.favoritesManager().Favorites()
	if mode != "" {
		movies = r.sorter.Sort(movies, mode)
	}

	export := &formatter.Export{
		Title:     "Favorite Movies",
		Movies:    movies,
		ImageBase: r.config.TMDB.ImageURL,
	}

	if output := cmd.String("output"); output == "-" {
		data, err := formatter.Render(export, format)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	path, err := formatter.WriteExport(export, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported favorites", "format", format, "path", path, "count", len(movies))
	return r.writePlain("✓ Exported %d favorites to %s\n", len(movies), path)
}

// FavoritesClear empties the favorites list and deletes its persisted entry.
func (r *Runner) FavoritesClear(ctx context.Context, cmd *cli.Command) error {
	manager := r.favoritesManager()

	if !cmd.Bool("yes") {
		return r.writePlain("This deletes %d saved favorites. Re-run with --yes to confirm.\n", manager.Len())
	}

	count := manager.Clear()
	r.logger.Info("cleared favorites", "key", favorites.StorageKey, "count", count)
	return r.writePlain("Cleared %d favorites\n", count)
}

// FavoritesDump prints the stored favorites value exactly as persisted.
func (r *Runner) FavoritesDump(ctx context.Context, cmd *cli.Command) error {
	r.favoritesManager()

	raw, ok := r.adapter.Raw(favorites.StorageKey)
	if !ok {
		return r.writePlain("Nothing stored under %q\n", favorites.StorageKey)
	}

	if !cmd.Bool("pretty") {
		return r.writePlain("%s\n", raw)
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		r.logger.Warn("stored value is not valid JSON", "key", favorites.StorageKey, "err", err)
		return r.writePlain("%s\n", raw)
	}
	return r.writeJSON(v, true)
}

// FavoritesRefresh compares the stored favorites with the live catalog.
//
// Nothing is written; the report lists fields that changed since each movie was added.
func (r *Runner) FavoritesRefresh(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.catalogClient(); err != nil {
		return err
	}

	movies := r.favoritesManager().Favorites()
	if len(movies) == 0 {
		return r.writePlain("No favorites to refresh\n")
	}

	asJSON := cmd.Bool("json")
	progress, wait := r.trackProgress(asJSON)
	result, err := r.engine.Refresh(ctx, progress, movies, tasks.BulkDetailsOpts{NumWorkers: cmd.Int("workers")})
	wait()
	if result == nil {
		return err
	}

	if asJSON {
		if jerr := r.writeJSON(result, cmd.Bool("pretty")); jerr != nil {
			return jerr
		}
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Refresh Report")
	r.writePlain("Checked: %d\n", result.Checked)
	r.writePlain("Unchanged: %d\n", result.Unchanged)

	if len(result.Changed) > 0 {
		r.writePlainln("Changed (%d):", len(result.Changed))
		for _, change := range result.Changed {
			r.writePlain("  %s (%d)\n", change.Title, change.ID)
			for _, field := range change.Changes {
				r.writePlain("    %s: %q → %q\n", field.Field, field.Stored, field.Live)
			}
		}
	}

	if len(result.Missing) > 0 {
		r.writePlainln("No longer in the catalog (%d):", len(result.Missing))
		for _, m := range result.Missing {
			r.writePlain("  - %s (%d)\n", m.Title, m.ID)
		}
	}

	if len(result.Failed) > 0 {
		r.writePlainln("Lookups failed (%d):", len(result.Failed))
		for _, f := range result.Failed {
			r.writePlain("  - %s (%d): %s\n", f.Title, f.ID, f.Error)
		}
	}

	if errors.Is(err, context.Canceled) {
		r.writePlainln("Refresh interrupted; the report is partial.")
	}
	return err
}

// filterMovies keeps movies whose title or original title fuzzy-matches query,
// ignoring case and diacritics.
func filterMovies(movies []models.Movie, query string) []models.Movie {
	matched := []models.Movie{}
	for _, m := range movies {
		if fuzzy.MatchNormalizedFold(query, m.Title) || fuzzy.MatchNormalizedFold(query, m.OriginalTitle) {
			matched = append(matched, m)
		}
	}
	return matched
}
