// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/cinelist/internal/formatter"
	"github.com/desertthunder/cinelist/internal/models"
	"github.com/urfave/cli/v3"
)

func sortUsage() string {
	modes := []string{}
	for _, opt := range models.SortOptions() {
		modes = append(modes, string(opt.Mode))
	}
	return "Sort order (" + strings.Join(modes, ", ") + ")"
}

func formatUsage() string {
	formats := []string{}
	for _, f := range formatter.Formats() {
		formats = append(formats, string(f))
	}
	return "Export format (" + strings.Join(formats, ", ") + ")"
}

// listFlags are shared by commands that print a page of catalog results.
func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "First page to fetch",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "pages",
			Usage: "Number of consecutive pages to fetch and merge",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: sortUsage(),
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// popularCommand lists popular movies
func popularCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "popular",
		Usage:  "List popular movies",
		Flags:  listFlags(),
		Action: r.Popular,
	}
}

// searchCommand searches the catalog by title
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search movies by title",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags:  listFlags(),
		Action: r.Search,
	}
}

// detailsCommand fetches one or more movies by ID
func detailsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "details",
		Aliases:   []string{"movie"},
		Usage:     "Show details for one or more movie IDs",
		ArgsUsage: "<id>...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent lookups when several IDs are given",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Details,
	}
}

// favoritesCommand manages the persisted favorites list
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav", "favs"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List favorite movies",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "sort",
						Usage: sortUsage(),
					},
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Fuzzy match against titles",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Fetch a movie by ID and add it to favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a movie from favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:  "export",
				Usage: "Export favorites to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: formatUsage(),
						Value: string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path, or - for stdout (default: favorites.<ext>)",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: sortUsage(),
					},
				},
				Action: r.FavoritesExport,
			},
			{
				Name:  "clear",
				Usage: "Delete the persisted favorites list",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm deletion",
					},
				},
				Action: r.FavoritesClear,
			},
			{
				Name:  "dump",
				Usage: "Print the raw stored favorites value",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.FavoritesDump,
			},
			{
				Name:  "refresh",
				Usage: "Compare stored favorites with the live catalog without changing them",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent lookups",
						Value: 4,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.FavoritesRefresh,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and storage.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write config.toml (default: XDG config directory)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the SQLite store and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Database path (default: storage.path or the XDG data directory)",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Action:  r.TUI,
	}
}
