// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package perception

import (
	"github.com/embermud/embermud/internal/geometry"
	"github.com/embermud/embermud/internal/world"
)

// isWithinSight decides whether sight can continue from source into
// target while tracing the event outward. The rooms the event is
// anchored in (origin, and destination for movement) always pass.
//
// Otherwise the direction of travel out of source must line up with
// the direction the event arrived from: rooms with walls only pass
// sight straight through (exact X/Y match), open rooms allow any
// horizontal course at the same height, and vertical sight needs an
// open ceiling going up or an open floor going down.
func (e *Engine) isWithinSight(ev Event, target, source *world.Room) bool {
	if source.ID == ev.Origin || source.ID == ev.Destination {
		return true
	}

	depart := target.Position.Sub(source.Position).Normalize()

	for _, anchor := range []world.Ref{ev.Origin, ev.Destination} {
		if anchor.IsZero() {
			continue
		}
		room := e.realm.Room(anchor)
		if room == nil {
			continue
		}
		arrive := source.Position.Sub(room.Position).Normalize()
		if sightContinues(source, arrive, depart) {
			return true
		}
	}
	return false
}

// sightContinues applies the occlusion rules of one room to a
// sightline arriving along arrive and leaving along depart.
func sightContinues(source *world.Room, arrive, depart geometry.Vector) bool {
	if source.Flags.Has(world.RoomHasWalls) {
		if arrive.X != depart.X || arrive.Y != depart.Y {
			return false
		}
	} else if arrive.Z != depart.Z {
		return false
	}

	if depart.Z > 0 && source.Flags.Has(world.RoomHasCeiling) {
		return false
	}
	if depart.Z < 0 && source.Flags.Has(world.RoomHasFloor) {
		return false
	}
	return true
}
