package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/songsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// setupConfig loads the config at the --config path, creating it from the template when absent.
//
// Failures fall back to defaults with a warning, so setup can always proceed.
func (r *Runner) setupConfig(cmd *cli.Command) *shared.Config {
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

	if err := shared.LoadEnv(config); err != nil {
		r.logger.Warn("failed to apply environment overrides", "error", err)
	}

	r.config = config
	r.configPath = configPath
	return config
}

// SetupConfig writes the configuration template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Configuration written to %s\n", configPath)
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.setupConfig(cmd)

	r.logger.Info("initializing database", "driver", config.Database.Driver, "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrationsContext(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", databaseName(config.Database))
	r.writePlain("✓ Database ready: %s\n", databaseName(config.Database))
	return nil
}

// SetupRollback reverts the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	config := r.setupConfig(cmd)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}

	r.logger.Info("rolled back latest migration", "database", databaseName(config.Database))
	r.writePlain("✓ Rolled back the latest migration\n")
	return nil
}

// SetupStatus lists the embedded migrations and their applied state.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	config := r.setupConfig(cmd)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	statuses, err := shared.Migrations(ctx, db)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type row struct {
			Version int    `json:"version"`
			Name    string `json:"name"`
			Applied bool   `json:"applied"`
		}
		rows := make([]row, len(statuses))
		for i, s := range statuses {
			rows[i] = row{Version: s.Version, Name: s.Name, Applied: s.Applied}
		}
		return r.writeJSON(rows, true)
	}

	r.writePlainHeader(fmt.Sprintf("Migrations (%s)", databaseName(config.Database)))
	for _, s := range statuses {
		mark := "·"
		if s.Applied {
			mark = "✓"
		}
		r.writePlain("%s %04d %s\n", mark, s.Version, s.Name)
	}
	return nil
}

func databaseName(cfg shared.DatabaseConfig) string {
	if cfg.Driver == shared.DriverLibSQL {
		return cfg.URL
	}
	return cfg.Path
}
