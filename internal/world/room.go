// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package world

import (
	"github.com/embermud/embermud/internal/geometry"
)

// RoomFlags describe the physical make-up of a room.
type RoomFlags uint32

const (
	RoomHasWalls RoomFlags = 1 << iota
	RoomHasCeiling
	RoomHasFloor
	RoomIsRoad
	RoomIsRiver
	RoomHasRoof
	// RoomDistantCharacters makes room descriptions include characters
	// visible in rooms further along open sightlines.
	RoomDistantCharacters
	// RoomDynamicPortals derives portal descriptions from the relative
	// positions of the rooms they connect.
	RoomDynamicPortals
)

// Has reports whether all the given flags are set.
func (f RoomFlags) Has(flags RoomFlags) bool {
	return f&flags == flags
}

// EventKind classifies perceptible events for per-room attenuation.
type EventKind string

const (
	EventMovement EventKind = "movement"
	EventCombat   EventKind = "combat"
	EventSpeech   EventKind = "speech"
	EventDeath    EventKind = "death"
	EventPortal   EventKind = "portal"
)

// Room is a node of the world graph.
//
// The Characters list is a derived index: Character.Room is the
// authoritative pointer, and every move must update both sides.
type Room struct {
	ID          Ref                   `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Position    geometry.Point        `json:"position"`
	Flags       RoomFlags             `json:"flags,omitempty"`
	Characters  []Ref                 `json:"characters,omitempty"`
	Items       []Ref                 `json:"items,omitempty"`
	Portals     []Ref                 `json:"portals,omitempty"`
	Multipliers map[EventKind]float64 `json:"multipliers,omitempty"`
}

// Ref returns the room's identity.
func (r *Room) Ref() Ref { return r.ID }

// EventMultiplier returns the room's strength multiplier for the given
// event kind, defaulting to 1.
func (r *Room) EventMultiplier(kind EventKind) float64 {
	if m, ok := r.Multipliers[kind]; ok {
		return m
	}
	return 1
}

// AddCharacter adds the character ref to the room index.
func (r *Room) AddCharacter(ref Ref) {
	r.Characters = addRef(r.Characters, ref)
}

// RemoveCharacter removes the character ref from the room index.
func (r *Room) RemoveCharacter(ref Ref) {
	r.Characters = removeRef(r.Characters, ref)
}

// AddItem adds the item ref to the room.
func (r *Room) AddItem(ref Ref) {
	r.Items = addRef(r.Items, ref)
}

// RemoveItem removes the item ref from the room.
func (r *Room) RemoveItem(ref Ref) {
	r.Items = removeRef(r.Items, ref)
}

// AddPortal adds the portal ref to the room.
func (r *Room) AddPortal(ref Ref) {
	r.Portals = addRef(r.Portals, ref)
}

// RemovePortal removes the portal ref from the room.
func (r *Room) RemovePortal(ref Ref) {
	r.Portals = removeRef(r.Portals, ref)
}
