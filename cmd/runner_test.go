package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/cinelist/internal/favorites"
	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/desertthunder/cinelist/internal/storage"
	"github.com/desertthunder/cinelist/internal/tasks"
	tu "github.com/desertthunder/cinelist/internal/testing"
	"github.com/urfave/cli/v3"
)

func ptr(s string) *string { return &s }

var catalogMovies = []models.Movie{
	{ID: 101, Title: "Filme A", PosterPath: ptr("/a.jpg"), ReleaseDate: "2023-01-01", VoteAverage: 8.5, VoteCount: 1200, OriginalTitle: "Movie A"},
	{ID: 102, Title: "Ação Total", ReleaseDate: "2021-06-10", VoteAverage: 6.1, VoteCount: 80, OriginalTitle: "Total Action"},
	{ID: 103, Title: "Baleia", ReleaseDate: "2022-12-09", VoteAverage: 7.7, VoteCount: 340, OriginalTitle: "The Whale"},
}

type testEnv struct {
	runner  *Runner
	output  *bytes.Buffer
	catalog *tu.MockCatalog
	mem     *storage.MemoryBackend
	adapter *storage.Adapter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	config := shared.DefaultConfig()
	config.Storage.Driver = shared.DriverMemory

	logger := shared.NewLogger(&bytes.Buffer{})
	mem := storage.NewMemoryBackend()
	adapter := storage.NewAdapter(mem, logger)
	output := &bytes.Buffer{}
	catalog := tu.NewMockCatalog(catalogMovies...)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Adapter: adapter,
		Logger:  logger,
		Output:  output,
	})

	return &testEnv{runner: runner, output: output, catalog: catalog, mem: mem, adapter: adapter}
}

// run executes args against the registered commands.
func (e *testEnv) run(args ...string) error {
	e.output.Reset()
	app := &cli.Command{
		Name:     "cinelist",
		Writer:   e.output,
		Commands: e.runner.register(),
	}
	return app.Run(context.Background(), append([]string{"cinelist"}, args...))
}

func (e *testEnv) stored(t *testing.T) []models.Movie {
	t.Helper()
	movies, ok := storage.Read[[]models.Movie](e.adapter, favorites.StorageKey)
	if !ok {
		t.Fatal("expected favorites to be stored")
	}
	return movies
}

func ids(movies []models.Movie) []int {
	out := make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := tu.NewMockCatalog()
			adapter := storage.NewAdapter(storage.NewMemoryBackend(), logger)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalog:    catalog,
				Adapter:    adapter,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.adapter != adapter {
				t.Error("expected adapter to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be created for the catalog")
			}
			if runner.sorter == nil {
				t.Error("expected sorter to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("without catalog defers engine creation", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.catalog != nil || runner.engine != nil {
				t.Error("expected catalog and engine to be created lazily")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("catalogClient", func(t *testing.T) {
		t.Run("requires credentials", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.TMDB.APIKey = ""
			config.TMDB.AccessToken = ""
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{})})

			_, err := runner.catalogClient()
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("creates client and engine from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.TMDB.APIKey = "key"
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{})})

			catalog, err := runner.catalogClient()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if catalog == nil || runner.engine == nil {
				t.Fatal("expected catalog and engine to be created")
			}

			again, _ := runner.catalogClient()
			if again != catalog {
				t.Error("expected the same catalog on repeated calls")
			}
		})
	})

	t.Run("favoritesManager", func(t *testing.T) {
		t.Run("opens the configured driver", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Storage.Driver = shared.DriverBolt
			config.Storage.Path = filepath.Join(t.TempDir(), "favorites.db")
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{})})
			defer runner.Close()

			favs := runner.favoritesManager()
			favs.Add(catalogMovies[0])

			if runner.favoritesManager() != favs {
				t.Error("expected the same manager on repeated calls")
			}
			if _, ok := runner.adapter.Raw(favorites.StorageKey); !ok {
				t.Error("expected add to be written to bolt")
			}
		})

		t.Run("keeps working when storage cannot be opened", func(t *testing.T) {
			var logs bytes.Buffer
			config := shared.DefaultConfig()
			config.Storage.Driver = "redis"
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&logs)})

			favs := runner.favoritesManager()
			favs.Add(catalogMovies[0])

			if !favs.IsFavorited(101) {
				t.Error("expected in-memory add to succeed without storage")
			}
			if !strings.Contains(logs.String(), "storage unavailable") {
				t.Errorf("expected storage error to be logged, got %q", logs.String())
			}
			if err := runner.Close(); err != nil {
				t.Errorf("expected close to succeed, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"popular", "search", "details", "favorites", "setup", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestMovieCommands(t *testing.T) {
	t.Run("popular merges pages", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("popular", "--json", "--pages", "2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		if err := json.Unmarshal(env.output.Bytes(), &movies); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", env.output.String(), err)
		}
		if got := ids(movies); len(got) != 3 || got[0] != 101 || got[2] != 103 {
			t.Errorf("expected [101 102 103], got %v", got)
		}
	})

	t.Run("popular sorts by rating", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("popular", "--json", "--pages", "2", "--sort", "rating_desc"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		if err := json.Unmarshal(env.output.Bytes(), &movies); err != nil {
			t.Fatalf("expected JSON output: %v", err)
		}
		if got := ids(movies); got[0] != 101 || got[1] != 103 || got[2] != 102 {
			t.Errorf("expected [101 103 102], got %v", got)
		}
	})

	t.Run("popular table marks favorites", func(t *testing.T) {
		env := newTestEnv(t)
		env.runner.favoritesManager().Add(catalogMovies[0])

		if err := env.run("popular"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		if !strings.Contains(out, "★") || !strings.Contains(out, "Filme A") {
			t.Errorf("expected starred table row, got %q", out)
		}
		if !strings.Contains(out, "1,200") {
			t.Errorf("expected humanized vote count, got %q", out)
		}
		if !strings.Contains(out, "next: --page 2") {
			t.Errorf("expected next page hint, got %q", out)
		}
	})

	t.Run("rejects unknown sort", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run("popular", "--sort", "year")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("surfaces catalog errors", func(t *testing.T) {
		env := newTestEnv(t)
		env.catalog.Err = shared.ErrServiceUnavailable

		err := env.run("popular")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("search requires a query", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run("search")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if len(env.catalog.Calls()) != 0 {
			t.Errorf("expected no catalog calls, got %v", env.catalog.Calls())
		}
	})

	t.Run("search prints matches", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("search", "--json", "baleia"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		if err := json.Unmarshal(env.output.Bytes(), &movies); err != nil {
			t.Fatalf("expected JSON output: %v", err)
		}
		if len(movies) != 1 || movies[0].ID != 103 {
			t.Errorf("expected only 103, got %v", ids(movies))
		}
	})

	t.Run("details prints a card", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("details", "101"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		for _, want := range []string{"Filme A (2023)", "Original title: Movie A", "Rating: 8.5", "/a.jpg", "/movie/101"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output, got %q", want, out)
			}
		}
	})

	t.Run("details with several ids keeps input order", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("details", "--json", "103", "101"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		if err := json.Unmarshal(env.output.Bytes(), &movies); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", env.output.String(), err)
		}
		if got := ids(movies); len(got) != 2 || got[0] != 103 || got[1] != 101 {
			t.Errorf("expected [103 101], got %v", got)
		}
	})

	t.Run("details reports partial failures", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("details", "101", "999"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		if !strings.Contains(out, "Failed to load 1 of 2 movies") || !strings.Contains(out, "999") {
			t.Errorf("expected failure summary, got %q", out)
		}
	})

	t.Run("details rejects invalid ids", func(t *testing.T) {
		env := newTestEnv(t)

		for _, arg := range []string{"abc", "0", "-5"} {
			err := env.run("details", "--", arg)
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("%s: expected ErrInvalidArgument, got %v", arg, err)
			}
		}
		if err := env.run("details"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestFavoritesCommands(t *testing.T) {
	t.Run("add fetches details and writes through", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("favorites", "add", "101"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "Added Filme A (2023)") {
			t.Errorf("unexpected output %q", env.output.String())
		}
		if got := ids(env.stored(t)); len(got) != 1 || got[0] != 101 {
			t.Errorf("expected [101] stored, got %v", got)
		}
	})

	t.Run("add is idempotent and skips the lookup", func(t *testing.T) {
		env := newTestEnv(t)

		env.run("favorites", "add", "101")
		if err := env.run("favorites", "add", "101"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(env.output.String(), "already a favorite") {
			t.Errorf("unexpected output %q", env.output.String())
		}
		if calls := env.catalog.Calls(); len(calls) != 1 {
			t.Errorf("expected one details call, got %v", calls)
		}
		if got := ids(env.stored(t)); len(got) != 1 {
			t.Errorf("expected one stored favorite, got %v", got)
		}
	})

	t.Run("add surfaces lookup errors", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run("favorites", "add", "999")
		if !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
		if env.runner.favoritesManager().Len() != 0 {
			t.Error("expected no favorite to be added")
		}
	})

	t.Run("add rejects invalid ids", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("favorites", "add", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if err := env.run("favorites", "add"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("remove writes through even when absent", func(t *testing.T) {
		env := newTestEnv(t)
		env.run("favorites", "add", "101")

		if err := env.run("favorites", "remove", "101"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "Removed Filme A") {
			t.Errorf("unexpected output %q", env.output.String())
		}
		if got := env.stored(t); len(got) != 0 {
			t.Errorf("expected empty stored list, got %v", ids(got))
		}

		env.mem.Delete(favorites.StorageKey)
		if err := env.run("favorites", "remove", "555"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "not a favorite") {
			t.Errorf("unexpected output %q", env.output.String())
		}
		if raw, ok := env.adapter.Raw(favorites.StorageKey); !ok || raw != "[]" {
			t.Errorf("expected remove to write [], got %q (present=%v)", raw, ok)
		}
	})

	t.Run("list loads stored favorites at startup", func(t *testing.T) {
		env := newTestEnv(t)
		env.adapter.Write(favorites.StorageKey, catalogMovies)

		if err := env.run("favorites", "list", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		if err := json.Unmarshal(env.output.Bytes(), &movies); err != nil {
			t.Fatalf("expected JSON output: %v", err)
		}
		if got := ids(movies); len(got) != 3 || got[0] != 101 || got[1] != 102 || got[2] != 103 {
			t.Errorf("expected stored order [101 102 103], got %v", got)
		}
	})

	t.Run("list sorts titles with the configured collation", func(t *testing.T) {
		env := newTestEnv(t)
		env.adapter.Write(favorites.StorageKey, catalogMovies)

		if err := env.run("favorites", "list", "--json", "--sort", "title_asc"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		json.Unmarshal(env.output.Bytes(), &movies)
		if got := ids(movies); got[0] != 102 || got[1] != 103 || got[2] != 101 {
			t.Errorf("expected [102 103 101], got %v", got)
		}
	})

	t.Run("list filters with fuzzy matching", func(t *testing.T) {
		env := newTestEnv(t)
		env.adapter.Write(favorites.StorageKey, catalogMovies)

		if err := env.run("favorites", "list", "--json", "--filter", "acao"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		json.Unmarshal(env.output.Bytes(), &movies)
		if got := ids(movies); len(got) != 1 || got[0] != 102 {
			t.Errorf("expected [102], got %v", got)
		}

		if err := env.run("favorites", "list", "--json", "--filter", "whale"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		json.Unmarshal(env.output.Bytes(), &movies)
		if got := ids(movies); len(got) != 1 || got[0] != 103 {
			t.Errorf("expected original title match [103], got %v", got)
		}
	})

	t.Run("list shows an empty message", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("favorites", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "No favorites yet") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})

	t.Run("export writes a file", func(t *testing.T) {
		env := newTestEnv(t)
		env.adapter.Write(favorites.StorageKey, catalogMovies)
		path := filepath.Join(t.TempDir(), "out", "favs.csv")

		if err := env.run("favorites", "export", "--format", "csv", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		content := tu.MustReadFile(t, path)
		if !strings.HasPrefix(content, "ID,Title,Year") || !strings.Contains(content, "Ação Total") {
			t.Errorf("unexpected CSV %q", content)
		}
		if !strings.Contains(env.output.String(), "Exported 3 favorites") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})

	t.Run("export to stdout", func(t *testing.T) {
		env := newTestEnv(t)
		env.adapter.Write(favorites.StorageKey, catalogMovies[:1])

		if err := env.run("favorites", "export", "--format", "md", "--output", "-"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "# Favorite Movies") {
			t.Errorf("expected markdown, got %q", env.output.String())
		}
	})

	t.Run("export rejects unknown formats", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run("favorites", "export", "--format", "xml")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("clear requires confirmation", func(t *testing.T) {
		env := newTestEnv(t)
		env.adapter.Write(favorites.StorageKey, catalogMovies)

		if err := env.run("favorites", "clear"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := env.adapter.Raw(favorites.StorageKey); !ok {
			t.Fatal("expected favorites to survive without --yes")
		}

		if err := env.run("favorites", "clear", "--yes"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := env.adapter.Raw(favorites.StorageKey); ok {
			t.Error("expected favorites to be deleted")
		}
		if !strings.Contains(env.output.String(), "Cleared 3 favorites") {
			t.Errorf("unexpected output %q", env.output.String())
		}
		if n := env.runner.favoritesManager().Len(); n != 0 {
			t.Errorf("expected in-memory favorites to be cleared, got %d", n)
		}
	})

	t.Run("dump prints the raw value", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("favorites", "dump"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "Nothing stored") {
			t.Errorf("unexpected output %q", env.output.String())
		}

		env.mem.Set(favorites.StorageKey, "not-json")
		if err := env.run("favorites", "dump", "--pretty"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(env.output.String()) != "not-json" {
			t.Errorf("expected raw corrupt value, got %q", env.output.String())
		}
	})

	t.Run("refresh reports changes without writing", func(t *testing.T) {
		env := newTestEnv(t)
		stale := catalogMovies[0]
		stale.Title = "Filme A (2022)"
		gone := models.Movie{ID: 404, Title: "Removido"}
		env.adapter.Write(favorites.StorageKey, []models.Movie{stale, catalogMovies[2], gone})
		before, _ := env.adapter.Raw(favorites.StorageKey)

		if err := env.run("favorites", "refresh", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var result tasks.RefreshResult
		if err := json.Unmarshal(env.output.Bytes(), &result); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", env.output.String(), err)
		}
		if result.Checked != 3 || result.Unchanged != 1 {
			t.Errorf("expected 3 checked and 1 unchanged, got %+v", result)
		}
		if len(result.Changed) != 1 || result.Changed[0].Changes[0].Field != "title" {
			t.Errorf("expected a title change, got %+v", result.Changed)
		}
		if len(result.Missing) != 1 || result.Missing[0].ID != 404 {
			t.Errorf("expected 404 to be missing, got %+v", result.Missing)
		}

		after, _ := env.adapter.Raw(favorites.StorageKey)
		if after != before {
			t.Error("expected refresh to leave stored favorites untouched")
		}
	})

	t.Run("refresh with no favorites", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run("favorites", "refresh"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "No favorites to refresh") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config writes the example file once", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "cinelist", "config.toml")

		if err := env.run("setup", "config", "--path", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "[tmdb]") {
			t.Error("expected example config content")
		}

		if err := env.run("setup", "config", "--path", path); err == nil {
			t.Error("expected error when the config already exists")
		}
	})

	t.Run("database runs migrations", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "cinelist.sqlite")

		if err := env.run("setup", "database", "--path", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(env.output.String(), "Database ready") {
			t.Errorf("unexpected output %q", env.output.String())
		}

		if err := env.run("setup", "database", "--path", path); err != nil {
			t.Fatalf("expected rerun to succeed, got %v", err)
		}
		if !strings.Contains(env.output.String(), "applied 0 migrations") {
			t.Errorf("expected no pending migrations, got %q", env.output.String())
		}

		backend, err := storage.OpenSQLBackend(path)
		if err != nil {
			t.Fatalf("expected migrated database to open, got %v", err)
		}
		defer backend.Close()
	})

	t.Run("database rollback reverts the latest migration", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "cinelist.sqlite")

		if err := env.run("setup", "database", "--path", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := env.run("setup", "database", "--path", path, "--rollback"); err != nil {
			t.Fatalf("expected rollback to succeed, got %v", err)
		}
		if !strings.Contains(env.output.String(), "to schema version 0") {
			t.Errorf("unexpected output %q", env.output.String())
		}

		if err := env.run("setup", "database", "--path", path); err != nil {
			t.Fatalf("expected migrations to reapply, got %v", err)
		}
		if !strings.Contains(env.output.String(), "applied 1 migrations") {
			t.Errorf("expected the reverted migration to be reapplied, got %q", env.output.String())
		}
	})
}
