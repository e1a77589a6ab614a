// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package main

import (
	"log/slog"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/embermud/embermud/internal/world"
)

// NewValidateSeedCmd creates the validate-seed subcommand.
func NewValidateSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-seed <file>...",
		Short: "Validate seed files without starting the server",
		Long: `Parses each seed YAML file into a scratch world.
Does NOT start the server or require a database connection.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch seed errors early:
  embermud validate-seed seeds/world.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateSeed(cmd, args)
		},
	}
}

func runValidateSeed(cmd *cobra.Command, paths []string) error {
	failed := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err == nil {
			realm := world.NewRealm()
			err = world.LoadSeed(realm, data)
			if err == nil {
				cmd.Printf("%s: ok (%d entities)\n", path, realm.Len())
				continue
			}
		}
		failed++
		slog.Error("seed validation failed", "path", path, "error", err)
		cmd.Printf("%s: %v\n", path, err)
	}

	if failed > 0 {
		return oops.Code("SEED_INVALID").Errorf("%d of %d seed files invalid", failed, len(paths))
	}
	return nil
}
