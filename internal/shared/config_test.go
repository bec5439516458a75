package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.TMDB.BaseURL != "https://api.themoviedb.org/3" {
			t.Errorf("expected TMDB base URL https://api.themoviedb.org/3, got %s", config.TMDB.BaseURL)
		}

		if config.TMDB.Language != "pt-BR" {
			t.Errorf("expected language pt-BR, got %s", config.TMDB.Language)
		}

		if config.Storage.Driver != DriverBolt {
			t.Errorf("expected storage driver bolt, got %s", config.Storage.Driver)
		}

		if config.TMDB.RateLimit != 20 {
			t.Errorf("expected rate limit 20, got %v", config.TMDB.RateLimit)
		}

		if config.UI.DefaultSort != "title_asc" {
			t.Errorf("expected default sort title_asc, got %s", config.UI.DefaultSort)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.TMDB.BaseURL != defaultConfig.TMDB.BaseURL {
			t.Errorf("created config base URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[tmdb]
api_key = "test_api_key"
language = "en-US"

[storage]
driver = "sqlite"
path = "/custom/path.sqlite"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.TMDB.APIKey != "test_api_key" {
			t.Errorf("expected api key test_api_key, got %s", config.TMDB.APIKey)
		}

		if config.TMDB.Language != "en-US" {
			t.Errorf("expected language en-US, got %s", config.TMDB.Language)
		}

		if config.StoragePath() != "/custom/path.sqlite" {
			t.Errorf("expected storage path /custom/path.sqlite, got %s", config.StoragePath())
		}

		if config.TMDB.BaseURL != "https://api.themoviedb.org/3" {
			t.Errorf("expected unset base URL to keep default, got %s", config.TMDB.BaseURL)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}

		config.TMDB.AccessToken = "token"
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}

		config.Storage.Driver = "postgres"
		if err := config.Validate(); !errors.Is(err, ErrUnknownDriver) {
			t.Errorf("expected ErrUnknownDriver, got %v", err)
		}
	})
}

func TestEnv(t *testing.T) {
	t.Run("Apply overrides set variables", func(t *testing.T) {
		t.Setenv("CINELIST_TMDB_API_KEY", "from-env")
		t.Setenv("CINELIST_STORAGE_DRIVER", "memory")

		config := DefaultConfig()
		NewEnv().Apply(config)

		if config.TMDB.APIKey != "from-env" {
			t.Errorf("expected api key from-env, got %s", config.TMDB.APIKey)
		}
		if config.Storage.Driver != DriverMemory {
			t.Errorf("expected driver memory, got %s", config.Storage.Driver)
		}
		if config.TMDB.Language != "pt-BR" {
			t.Errorf("expected unset variable to keep default, got %s", config.TMDB.Language)
		}
	})

	t.Run("Get returns empty for unset", func(t *testing.T) {
		t.Setenv("CINELIST_TMDB_IMAGE_URL", "")
		if got := NewEnv().Get(EnvImageURL); got != "" {
			t.Errorf("expected empty value, got %q", got)
		}
	})
}
