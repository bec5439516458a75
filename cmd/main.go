package main

import (
	"cmp"
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	env := shared.NewEnv()

	configPath := shared.ResolveConfigPath(cmp.Or(env.Get(shared.EnvConfig), "config.toml"))
	config := loadConfig(configPath, logger)
	env.Apply(config)

	shared.SetLogLevel(logger, shared.ParseLevel(config.Logging.Level))
	if err := config.Validate(); err != nil && !errors.Is(err, shared.ErrMissingCredentials) {
		logger.Warn("configuration problem", "path", configPath, "err", err)
	}
	logger = shared.WithLogger(logger, "session", shared.GenerateID()[:8])

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "cinelist",
		Usage:    "Browse The Movie Database and keep a list of favorite movies",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	err := app.Run(context.Background(), os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close storage", "err", cerr)
	}

	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

// loadConfig reads path when it is set, otherwise the embedded defaults.
func loadConfig(path string, logger *log.Logger) *shared.Config {
	if path == "" {
		logger.Debug("no config file found, using defaults")
		return shared.DefaultConfig()
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", path, "err", err)
		return shared.DefaultConfig()
	}
	return config
}
