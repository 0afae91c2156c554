package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the config file when missing, initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v (%d migrations applied)", config.Database.Path, len(applied))

	if config.TVDB.APIKey == "" {
		r.writePlain("Set tvdb.api_key in %s or export TVDB_API_KEY before importing shows.\n", configPath)
	}
	return nil
}

// Migrate applies pending migrations, rolls back the latest one, or prints status.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("rollback") && cmd.Bool("status") {
		return fmt.Errorf("%w: --rollback and --status are mutually exclusive", shared.ErrInvalidArgument)
	}

	db := r.db
	if db == nil {
		opened, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer opened.Close()
		db = opened
	}

	switch {
	case cmd.Bool("status"):
		statuses, err := shared.MigrationStatuses(db)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			mark := " "
			if s.Applied {
				mark = "✓"
			}
			r.writePlain("[%s] %04d %s\n", mark, s.Version, s.Name)
		}
		return nil

	case cmd.Bool("rollback"):
		version, err := shared.RollbackMigration(db)
		if err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return r.writePlain("Rolled back migration %04d\n", version)

	default:
		applied, err := shared.RunMigrations(db)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		if len(applied) == 0 {
			return r.writePlain("Database is up to date\n")
		}
		for _, v := range applied {
			r.writePlain("Applied migration %04d\n", v)
		}
		return nil
	}
}
