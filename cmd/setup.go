package main

import (
	"cmp"
	"context"
	"fmt"

	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to --path or the XDG config directory.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmp.Or(cmd.String("path"), shared.DefaultConfigPath())

	r.logger.Info("creating config file", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.configPath = path
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set tmdb.api_key (or export CINELIST_TMDB_API_KEY)\n")
	r.writePlain("2. Run 'cinelist popular' to test the connection\n")
	return nil
}

// SetupDatabase initializes the SQLite store and runs migrations.
//
// With --rollback it reverts the most recent migration instead.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		if r.config.Storage.Driver != shared.DriverSQLite {
			r.logger.Warn("storage.driver is not sqlite; the database will not be used until it is",
				"driver", r.config.Storage.Driver)
		}
		cfg := *r.config
		cfg.Storage.Driver = shared.DriverSQLite
		path = cfg.StoragePath()
	}

	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}
		version, err := shared.CurrentVersion(db)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		return r.writePlain("✓ Rolled back %s to schema version %d\n", path, version)
	}

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlain("✓ Database ready at %s (applied %d migrations, schema version %d)\n", path, applied, version)
}
