// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/embermud/embermud/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the EmberMUD CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embermud",
		Short: "EmberMUD - a multiplayer text world server",
		Long: `EmberMUD is a multiplayer text world server with a single-threaded
simulation core, line-of-sight perception, and PostgreSQL persistence.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Without --config, pick up the XDG config file if one exists.
			if configFile == "" {
				path := filepath.Join(xdg.ConfigDir(), "config.yaml")
				if _, err := os.Stat(path); err == nil {
					configFile = path
				}
			}
		},
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewValidateSeedCmd())

	return cmd
}
