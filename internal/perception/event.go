// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package perception propagates events through the room graph. A
// visual or audible event starts in one room at a base strength, flood
// fills outward through permeable portals with attenuation, and is
// rendered as one text line per observing player.
package perception

import (
	"github.com/embermud/embermud/internal/world"
)

// Describe renders an event for one observer given the attenuated
// strength at the observer's room. ok false means the observer notices
// nothing at that strength.
type Describe func(strength float64, observer *world.Character, room *world.Room) (text string, ok bool)

// Event is a perceptible happening at an origin room.
//
// Destination is only set for movement events, which are anchored in
// two rooms at once; it is the zero ref otherwise.
type Event struct {
	Kind        world.EventKind
	Origin      world.Ref
	Destination world.Ref
	Excluded    world.RefSet
	Describe    Describe
}

// Result is the outcome of one propagation.
type Result struct {
	// Output is one rendered line per observing player.
	Output map[world.Ref]string
	// Perceived is every character, player or NPC, that noticed the
	// event. Callers chaining an audible event after a visual one use
	// it to avoid double notification.
	Perceived world.RefSet
}
