// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/embermud/embermud/internal/config"
	"github.com/embermud/embermud/internal/persist"
	"github.com/embermud/embermud/internal/world"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed subcommand.
type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with initial world data",
		Long: `Load a YAML world seed and insert it into the database.
This command is idempotent - entities that already exist are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("database.url", "", "PostgreSQL URL")
	flags.String("seedPath", "", "world seed YAML file")
	flags.DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, scfg *seedConfig) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required (config file or --database.url)")
	}
	if cfg.SeedPath == "" {
		return oops.Code("CONFIG_INVALID").Errorf("seedPath is required (config file or --seedPath)")
	}

	data, err := os.ReadFile(cfg.SeedPath)
	if err != nil {
		return oops.Code("SEED_FAILED").With("path", cfg.SeedPath).Wrap(err)
	}

	// Build the world in a scratch realm first so a bad seed file fails
	// before we touch the database.
	realm := world.NewRealm()
	if err := world.LoadSeed(realm, data); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), scfg.timeout)
	defer cancel()

	cmd.Println("Running migrations...")
	migrator, err := persist.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}

	cmd.Println("Connecting to database...")
	store, err := persist.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer store.Close()

	var inserted, skipped int
	for _, req := range realm.TakePersistenceRequests() {
		if req.Remove {
			continue
		}
		if err := store.Insert(ctx, req.Ref, req.Data); err != nil {
			if errors.Is(err, persist.ErrExists) {
				skipped++
				slog.Debug("entity already exists, skipping", "ref", req.Ref)
				continue
			}
			return oops.Code("SEED_FAILED").With("ref", req.Ref.String()).Wrap(err)
		}
		inserted++
	}

	cmd.Printf("Seeded %d entities (%d already existed)\n", inserted, skipped)
	slog.Info("world seeding complete", "inserted", inserted, "skipped", skipped)
	return nil
}
