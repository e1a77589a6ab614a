// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/embermud/embermud/internal/config"
	"github.com/embermud/embermud/internal/persist"
)

// migrateConfig holds configuration for the migrate subcommand.
type migrateConfig struct {
	down        bool
	steps       int
	force       int
	showVersion bool
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cfg := &migrateConfig{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Apply pending database migrations. With --down, roll everything back;
with --steps, apply (or roll back) a fixed number; with --version, show
the current schema version without changing anything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("database.url", "", "PostgreSQL URL")
	flags.BoolVar(&cfg.down, "down", false, "roll back all migrations (destructive)")
	flags.IntVar(&cfg.steps, "steps", 0, "apply n migrations (negative rolls back)")
	flags.IntVar(&cfg.force, "force", -1, "force the schema version to n to clear a dirty state")
	flags.BoolVar(&cfg.showVersion, "version", false, "show the current schema version")

	return cmd
}

func runMigrate(cmd *cobra.Command, mcfg *migrateConfig) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required (config file or --database.url)")
	}

	migrator, err := persist.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrln("warning:", closeErr)
		}
	}()

	switch {
	case mcfg.showVersion:
		return printMigrationStatus(cmd, migrator)
	case mcfg.force >= 0:
		if err := migrator.Force(mcfg.force); err != nil {
			return err
		}
		cmd.Printf("Forced schema version to %d\n", mcfg.force)
	case mcfg.down:
		if err := migrator.Down(); err != nil {
			return err
		}
		cmd.Println("Rolled back all migrations")
	case mcfg.steps != 0:
		if err := migrator.Steps(mcfg.steps); err != nil {
			return err
		}
		cmd.Printf("Applied %d migration step(s)\n", mcfg.steps)
	default:
		if err := migrator.Up(); err != nil {
			return err
		}
		cmd.Println("Migrations completed successfully")
	}

	return nil
}

func printMigrationStatus(cmd *cobra.Command, migrator *persist.Migrator) error {
	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}

	state := fmt.Sprintf("%d", version)
	if version == 0 {
		state = "none"
	}
	if dirty {
		state += " (dirty)"
	}
	cmd.Printf("Schema version: %s\n", state)
	if len(pending) == 0 {
		cmd.Println("No pending migrations")
	} else {
		cmd.Printf("Pending migrations: %v\n", pending)
	}
	return nil
}
