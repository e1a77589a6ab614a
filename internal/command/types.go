// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package command provides the command registry, parser, object
// resolver, and dispatch pipeline that turns one line of player input
// into action-layer calls.
package command

import (
	"context"
	"io"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/embermud/embermud/internal/action"
	"github.com/embermud/embermud/internal/world"
)

// Handler is the function signature for command handlers.
type Handler func(ctx context.Context, exec *Execution) error

// Entry is a registered command.
type Entry struct {
	Name    string   // canonical name (e.g. "kill")
	Aliases []string // extra names resolved to the same entry
	Admin   bool     // requires an admin character
	Help    string   // one-line description
	Usage   string   // usage pattern (e.g. "kill <target>")
	Handler Handler
}

// Execution carries the per-dispatch context a handler runs with.
// Handlers must not retain it beyond the call.
type Execution struct {
	Player    world.Ref
	SessionID ulid.ULID
	Name      string // resolved canonical command name
	Args      string // unparsed argument string
	Output    io.Writer
	Services  *Services
}

// Services gives handlers access to the world. Everything here is
// only touched from the engine goroutine.
type Services struct {
	Realm    *world.Realm
	Actions  *action.Service
	Sessions SessionService
}

// SessionService is what handlers may do with the connection layer.
type SessionService interface {
	// ListPlayers returns the characters with at least one live session.
	ListPlayers() []world.Ref
	// IdleTime reports how long the player's session has been quiet.
	IdleTime(player world.Ref) time.Duration
	// Send queues a line for the player, dropping it if the player has
	// no session or its buffer is full.
	Send(player world.Ref, text string)
	// Close disconnects all of the player's sessions.
	Close(player world.Ref)
}
