package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinelist/internal/favorites"
	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/desertthunder/cinelist/internal/storage"
	"github.com/desertthunder/cinelist/internal/tasks"
	"github.com/desertthunder/cinelist/internal/tmdb"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The catalog client and the favorites manager are created on first use so that commands
// like setup never open storage or require credentials.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    tmdb.Catalog
	adapter    *storage.Adapter
	favorites  *favorites.Manager
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.Engine
	sorter     *models.Sorter
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    tmdb.Catalog
	Adapter    *storage.Adapter
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		adapter:    opts.Adapter,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		sorter:     models.NewSorter(opts.Config.TMDB.Language),
	}
	if r.catalog != nil {
		r.engine = tasks.NewEngine(r.catalog)
	}
	return r
}

// SetLogger replaces the logger used by the runner and everything it creates afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the storage backend, if one was opened.
func (r *Runner) Close() error {
	if r.adapter == nil {
		return nil
	}
	return r.adapter.Close()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		popularCommand, searchCommand, detailsCommand, favoritesCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// catalogClient returns the TMDB catalog, creating the HTTP client from config on first use.
func (r *Runner) catalogClient() (tmdb.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	cfg := r.config.TMDB
	if cfg.APIKey == "" && cfg.AccessToken == "" {
		where := cmp.Or(r.configPath, shared.DefaultConfigPath())
		return nil, fmt.Errorf("%w: set tmdb.api_key in %s or CINELIST_TMDB_API_KEY", shared.ErrMissingCredentials, where)
	}

	r.catalog = tmdb.NewClient(tmdb.Options{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		AccessToken: cfg.AccessToken,
		Language:    cfg.Language,
		RateLimit:   cfg.RateLimit,
		HTTPClient:  r.httpClient,
		Logger:      r.logger,
	})
	r.engine = tasks.NewEngine(r.catalog)
	return r.catalog, nil
}

// favoritesManager returns the favorites manager, opening storage on first use.
//
// A storage failure is logged and the manager runs without durability.
func (r *Runner) favoritesManager() *favorites.Manager {
	if r.favorites != nil {
		return r.favorites
	}

	if r.adapter == nil {
		driver, path := r.config.Storage.Driver, r.config.StoragePath()
		backend, err := storage.Open(driver, path)
		if err != nil {
			r.logger.Error("storage unavailable, favorites will not be saved", "driver", driver, "path", path, "err", err)
		} else {
			r.logger.Debug("storage opened", "driver", driver, "path", path)
		}
		r.adapter = storage.NewAdapter(backend, r.logger)
	}

	r.favorites = favorites.New(r.adapter, r.logger)
	r.logger.Debug("favorites loaded", "count", r.favorites.Len(), "rehydrated", r.favorites.Rehydrated())
	return r.favorites
}

// favoriteMarker prefixes favorited rows in tables with a star.
func (r *Runner) favoriteMarker(m models.Movie) string {
	if r.favoritesManager().IsFavorited(m.ID) {
		return "★"
	}
	return ""
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
