// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import "github.com/embermud/embermud/internal/world"

// Scheduled events. The scheduler delivers these back into the engine
// queue, which routes them to the matching Service method; the timer
// goroutine never touches the realm itself.

// ResetAction reverts a character to Idle once a timed action expires.
// Seq must still match the character's current action generation, so a
// reset scheduled for a superseded action is silently stale.
type ResetAction struct {
	Character world.Ref
	Seq       uint64
}

// AutoClose closes a portal that was left open.
type AutoClose struct {
	Portal world.Ref
}

// ActivateActor re-invokes an NPC behavior's OnActive hook.
type ActivateActor struct {
	Actor world.Ref
}

// RespawnNPC returns a dead respawnable NPC to its spawn room.
type RespawnNPC struct {
	NPC world.Ref
}
