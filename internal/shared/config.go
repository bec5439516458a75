package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const appName = "cinelist"

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	TMDB    TMDBConfig    `toml:"tmdb"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

// TMDBConfig contains The Movie Database API settings.
type TMDBConfig struct {
	APIKey         string  `toml:"api_key"`
	AccessToken    string  `toml:"access_token"`
	BaseURL        string  `toml:"base_url"`
	Language       string  `toml:"language"`
	ImageURL       string  `toml:"image_url"`
	ImageBannerURL string  `toml:"image_banner_url"`
	RateLimit      float64 `toml:"rate_limit"` // requests per second
}

// StorageConfig selects the key-value backend used for favorites.
type StorageConfig struct {
	Driver string `toml:"driver"` // bolt, sqlite or memory
	Path   string `toml:"path"`
}

// LoggingConfig contains log level and file settings.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// UIConfig contains display preferences.
type UIConfig struct {
	DefaultSort string `toml:"default_sort"`
}

// Storage drivers
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfigPath returns path when it exists, otherwise the XDG config file when that exists.
//
// Returns an empty string when neither is present.
func ResolveConfigPath(path string) string {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if found, err := xdg.SearchConfigFile(filepath.Join(appName, "config.toml")); err == nil {
		return found
	}

	return ""
}

// DefaultConfigPath returns the XDG location for a new config file.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Validate checks that the configuration can be used to reach TMDB and open storage.
func (c *Config) Validate() error {
	if c.TMDB.APIKey == "" && c.TMDB.AccessToken == "" {
		return fmt.Errorf("%w: set tmdb.api_key or tmdb.access_token", ErrMissingCredentials)
	}

	switch c.Storage.Driver {
	case DriverBolt, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}

	if c.TMDB.RateLimit < 0 {
		return fmt.Errorf("%w: tmdb.rate_limit must not be negative", ErrInvalidConfig)
	}

	return nil
}

// StoragePath returns the configured storage path or the XDG data path for the driver.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}

	name := appName + ".db"
	if c.Storage.Driver == DriverSQLite {
		name = appName + ".sqlite"
	}

	return dataFile(name)
}

// LogPath returns the configured log file or the XDG state path.
func (c *Config) LogPath() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}

	path, err := xdg.StateFile(filepath.Join(appName, appName+".log"))
	if err != nil {
		return filepath.Join(".", "tmp", appName+".log")
	}
	return path
}

func dataFile(name string) string {
	path, err := xdg.DataFile(filepath.Join(appName, name))
	if err != nil {
		return filepath.Join(".", name)
	}
	return path
}
