package shared

import (
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "CINELIST"

// EnvKey names an environment override. The variable read is CINELIST_<KEY>.
type EnvKey string

const (
	EnvConfig         EnvKey = "config"
	EnvAPIKey         EnvKey = "tmdb_api_key"
	EnvAccessToken    EnvKey = "tmdb_access_token"
	EnvLanguage       EnvKey = "tmdb_language"
	EnvImageURL       EnvKey = "tmdb_image_url"
	EnvImageBannerURL EnvKey = "tmdb_image_banner_url"
	EnvStorageDriver  EnvKey = "storage_driver"
	EnvStoragePath    EnvKey = "storage_path"
	EnvLogLevel       EnvKey = "log_level"
)

// Env reads CINELIST_* variables through [viper].
type Env struct {
	v *viper.Viper
}

// NewEnv creates an [Env] bound to the process environment.
func NewEnv() *Env {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Env{v: v}
}

// Get returns the value of the variable for key, or an empty string.
func (e *Env) Get(key EnvKey) string {
	return strings.TrimSpace(e.v.GetString(string(key)))
}

// Apply overlays every set variable onto cfg.
func (e *Env) Apply(cfg *Config) {
	overrides := []struct {
		key EnvKey
		dst *string
	}{
		{EnvAPIKey, &cfg.TMDB.APIKey},
		{EnvAccessToken, &cfg.TMDB.AccessToken},
		{EnvLanguage, &cfg.TMDB.Language},
		{EnvImageURL, &cfg.TMDB.ImageURL},
		{EnvImageBannerURL, &cfg.TMDB.ImageBannerURL},
		{EnvStorageDriver, &cfg.Storage.Driver},
		{EnvStoragePath, &cfg.Storage.Path},
		{EnvLogLevel, &cfg.Logging.Level},
	}

	for _, o := range overrides {
		if val := e.Get(o.key); val != "" {
			*o.dst = val
		}
	}
}
