package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/cinelist/internal/formatter"
	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/desertthunder/cinelist/internal/tasks"
	"github.com/desertthunder/cinelist/internal/tmdb"
	"github.com/urfave/cli/v3"
)

// Popular prints one or more pages of popular movies.
func (r *Runner) Popular(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	r.logger.Debug("listing popular movies", "page", cmd.Int("page"), "pages", cmd.Int("pages"))
	return r.printListing(ctx, cmd, "Popular Movies", tasks.PopularPager(catalog))
}

// Search prints movies whose titles match the query argument.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := shared.NormalizeQuery(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	r.logger.Debug("searching movies", "query", query, "page", cmd.Int("page"))
	return r.printListing(ctx, cmd, fmt.Sprintf("Results for %q", query), tasks.SearchPager(catalog, query))
}

// printListing loads the requested pages from pager and prints the merged list.
func (r *Runner) printListing(ctx context.Context, cmd *cli.Command, title string, pager *tasks.Pager) error {
	mode, err := parseSort(cmd.String("sort"))
	if err != nil {
		return err
	}

	asJSON := cmd.Bool("json")
	progress, wait := r.trackProgress(asJSON)
	movies, err := pager.StartAt(cmd.Int("page")).Load(ctx, cmd.Int("pages"), progress)
	wait()
	if err != nil {
		return fmt.Errorf("failed to load movies: %w", err)
	}

	if mode != "" {
		movies = r.sorter.Sort(movies, mode)
	}

	if asJSON {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader(title)
	if len(movies) == 0 {
		return r.writePlain("No movies found.\n")
	}
	if err := formatter.WriteTable(r.output, movies, r.favoriteMarker); err != nil {
		return err
	}

	more := ""
	if pager.HasMore() {
		more = fmt.Sprintf(" (next: --page %d)", cmd.Int("page")+pager.PagesLoaded())
	}
	return r.writePlainln("%d of %d results%s", len(movies), pager.TotalResults(), more)
}

// Details prints one movie, or looks up several IDs concurrently.
func (r *Runner) Details(ctx context.Context, cmd *cli.Command) error {
	ids, err := parseIDs(cmd.Args().Slice())
	if err != nil {
		return err
	}

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		movie, err := catalog.Details(ctx, ids[0])
		if err != nil {
			return fmt.Errorf("failed to load movie %d: %w", ids[0], err)
		}
		if cmd.Bool("json") {
			return r.writeJSON(movie, cmd.Bool("pretty"))
		}
		return r.writeMovie(*movie)
	}

	asJSON := cmd.Bool("json")
	progress, wait := r.trackProgress(asJSON)
	result, err := r.engine.BulkDetails(ctx, progress, ids, tasks.BulkDetailsOpts{NumWorkers: cmd.Int("workers")})
	wait()
	if result == nil {
		return err
	}

	if asJSON {
		if jerr := r.writeJSON(result.Movies(), cmd.Bool("pretty")); jerr != nil {
			return jerr
		}
		return err
	}

	for _, movie := range result.Movies() {
		r.writePlain("\n")
		r.writeMovie(movie)
	}

	if result.Failed > 0 {
		r.writePlainln("Failed to load %d of %d movies:", result.Failed, len(ids))
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - %d: %s\n", res.ID, tmdb.ErrorMessage(res.Error, "unknown error"))
			}
		}
	}
	return err
}

// writeMovie prints a movie as a details card.
func (r *Runner) writeMovie(m models.Movie) error {
	star := ""
	if r.favoritesManager().IsFavorited(m.ID) {
		star = " ★"
	}

	r.writePlainHeader(fmt.Sprintf("%s (%s)%s", m.Title, m.Year(), star))
	if m.OriginalTitle != "" && m.OriginalTitle != m.Title {
		r.writePlain("Original title: %s (%s)\n", m.OriginalTitle, m.OriginalLanguage)
	}
	r.writePlain("Rating: %s (%s votes)\n", m.Rating(), formatter.Votes(m.VoteCount))
	if genres := m.GenreNames(); len(genres) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(genres, ", "))
	}
	if m.ReleaseDate != "" {
		r.writePlain("Released: %s\n", m.ReleaseDate)
	}
	if poster := tmdb.ImageURL(r.config.TMDB.ImageURL, m.Poster()); poster != "" {
		r.writePlain("Poster: %s\n", poster)
	}
	if backdrop := tmdb.ImageURL(r.config.TMDB.ImageBannerURL, m.Backdrop()); backdrop != "" {
		r.writePlain("Backdrop: %s\n", backdrop)
	}
	r.writePlain("Link: %s\n", tmdb.MovieURL(m.ID))
	if m.Overview != "" {
		r.writePlainln("%s", m.Overview)
	}
	return nil
}

// trackProgress returns a channel for task progress and a function that closes it and waits
// for the printer to drain. Updates are discarded when quiet is set.
func (r *Runner) trackProgress(quiet bool) (chan<- tasks.ProgressUpdate, func()) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Debug("progress", "phase", update.Phase, "step", update.Step, "total", update.Total)
			if !quiet {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	return progressCh, func() {
		close(progressCh)
		<-done
	}
}

func parseSort(value string) (models.SortMode, error) {
	if value == "" {
		return "", nil
	}
	mode, ok := models.ParseSortMode(value)
	if !ok {
		return "", fmt.Errorf("%w: unknown sort %q", shared.ErrInvalidFlag, value)
	}
	return mode, nil
}

func parseID(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: movie ID is required", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a movie ID", shared.ErrInvalidArgument, value)
	}
	return id, nil
}

func parseIDs(values []string) ([]int, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: at least one movie ID is required", shared.ErrMissingArgument)
	}

	ids := make([]int, 0, len(values))
	for _, v := range values {
		id, err := parseID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
