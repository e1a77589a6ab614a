// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/embermud/embermud/internal/command"
)

// playerInfo holds display information for a connected player.
type playerInfo struct {
	Name     string
	IdleTime time.Duration
}

// WhoHandler displays the connected players with idle times.
func WhoHandler(ctx context.Context, exec *command.Execution) error {
	realm := exec.Services.Realm

	var players []playerInfo
	if exec.Services.Sessions != nil {
		for _, ref := range exec.Services.Sessions.ListPlayers() {
			ch := realm.Character(ref)
			if ch == nil {
				continue
			}
			players = append(players, playerInfo{
				Name:     ch.Name,
				IdleTime: exec.Services.Sessions.IdleTime(ref),
			})
		}
	}

	if n, err := writeWhoOutput(exec.Output, players); err != nil {
		logOutputError(ctx, "who", exec, n, err)
	}
	return nil
}

// writeWhoOutput formats and writes the who list.
// Returns total bytes written and the first error encountered.
func writeWhoOutput(w io.Writer, players []playerInfo) (int, error) {
	var totalBytes int
	var firstErr error

	write := func(n int, err error) {
		totalBytes += n
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if len(players) == 0 {
		write(fmt.Fprintln(w, "No players online."))
		return totalBytes, firstErr
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})

	write(fmt.Fprintln(w, "Players Online:"))
	write(fmt.Fprintln(w, "---------------"))
	for _, p := range players {
		write(fmt.Fprintf(w, "  %-20s  Idle %s\n", p.Name, formatIdleTime(p.IdleTime)))
	}
	write(fmt.Fprintln(w, "---------------"))
	if len(players) == 1 {
		write(fmt.Fprintln(w, "1 player online."))
	} else {
		write(fmt.Fprintf(w, "%d players online.\n", len(players)))
	}

	return totalBytes, firstErr
}

// formatIdleTime formats a duration as a human-readable idle time.
func formatIdleTime(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	d = d.Round(time.Second)

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// QuitHandler ends the player's session gracefully.
func QuitHandler(ctx context.Context, exec *command.Execution) error {
	// The write error is logged but never fails the command; the
	// session close proceeds either way.
	writeOutput(ctx, exec, "quit", "Goodbye!")
	if exec.Services.Sessions != nil {
		exec.Services.Sessions.Close(exec.Player)
	}
	return nil
}

// NewHelpHandler builds the help command over the given registry.
func NewHelpHandler(reg *command.Registry) command.Handler {
	return func(ctx context.Context, exec *command.Execution) error {
		if exec.Args != "" {
			entry, err := reg.Resolve(command.Fields(exec.Args)[0])
			if err != nil {
				return err
			}
			writeOutputf(ctx, exec, "help", "%s - %s", entry.Name, entry.Help)
			if entry.Usage != "" {
				writeOutputf(ctx, exec, "help", "Usage: %s", entry.Usage)
			}
			return nil
		}

		writeOutput(ctx, exec, "help", "Available commands:")
		for _, name := range reg.Names() {
			entry, err := reg.Resolve(name)
			if err != nil {
				continue
			}
			writeOutputf(ctx, exec, "help", "  %-12s %s", name, entry.Help)
		}
		return nil
	}
}
