// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package world

import "time"

// PortalFlags describe what a portal permits, per side where relevant.
// The *IfOpen variants only apply while the portal is open.
type PortalFlags uint32

const (
	PortalCanOpenFromRoom PortalFlags = 1 << iota
	PortalCanOpenFromRoom2
	PortalCanSeeThrough
	PortalCanHearThrough
	PortalCanShootThrough
	PortalCanPassThrough
	PortalCanSeeThroughIfOpen
	PortalCanHearThroughIfOpen
	PortalCanShootThroughIfOpen
	PortalCanPassThroughIfOpen
)

// Openable is the sub-state carried only by portals and items that can
// actually be opened and closed.
type Openable struct {
	Key              Ref           `json:"key,omitempty"`
	AutoCloseTimeout time.Duration `json:"autoCloseTimeout,omitempty"`
	AutoCloseMessage string        `json:"autoCloseMessage,omitempty"`
}

// Portal connects two rooms. The two sides are asymmetric: each has
// its own name, description, and open permission.
type Portal struct {
	ID           Ref         `json:"id"`
	Room         Ref         `json:"room"`
	Room2        Ref         `json:"room2"`
	Name         string      `json:"name"`
	Name2        string      `json:"name2,omitempty"`
	Description  string      `json:"description,omitempty"`
	Description2 string      `json:"description2,omitempty"`
	Flags        PortalFlags `json:"flags,omitempty"`
	Open         bool        `json:"open,omitempty"`
	Openable     *Openable   `json:"openable,omitempty"`
	// Multiplier scales the strength of events crossing the portal.
	Multiplier float64 `json:"multiplier,omitempty"`
}

// Ref returns the portal's identity.
func (p *Portal) Ref() Ref { return p.ID }

// Connects reports whether the portal touches the given room.
func (p *Portal) Connects(room Ref) bool {
	return p.Room == room || p.Room2 == room
}

// OppositeOf returns the room on the other side of the portal from the
// given room. ok is false if the portal does not touch the room at all.
func (p *Portal) OppositeOf(room Ref) (opposite Ref, ok bool) {
	switch room {
	case p.Room:
		return p.Room2, true
	case p.Room2:
		return p.Room, true
	default:
		return Ref{}, false
	}
}

// NameFrom returns the portal's name as seen from the given room.
func (p *Portal) NameFrom(room Ref) string {
	if room == p.Room2 && p.Name2 != "" {
		return p.Name2
	}
	return p.Name
}

// DescriptionFrom returns the portal's description as seen from the
// given room.
func (p *Portal) DescriptionFrom(room Ref) string {
	if room == p.Room2 && p.Description2 != "" {
		return p.Description2
	}
	return p.Description
}

// CanOpenFrom reports whether the portal is operable from the given room.
func (p *Portal) CanOpenFrom(room Ref) bool {
	switch room {
	case p.Room:
		return p.Flags.has(PortalCanOpenFromRoom)
	case p.Room2:
		return p.Flags.has(PortalCanOpenFromRoom2)
	default:
		return false
	}
}

// CanSeeThrough reports whether sight currently crosses the portal.
func (p *Portal) CanSeeThrough() bool {
	return p.Flags.has(PortalCanSeeThrough) || (p.Open && p.Flags.has(PortalCanSeeThroughIfOpen))
}

// CanHearThrough reports whether sound currently crosses the portal.
func (p *Portal) CanHearThrough() bool {
	return p.Flags.has(PortalCanHearThrough) || (p.Open && p.Flags.has(PortalCanHearThroughIfOpen))
}

// CanShootThrough reports whether projectiles currently cross the portal.
func (p *Portal) CanShootThrough() bool {
	return p.Flags.has(PortalCanShootThrough) || (p.Open && p.Flags.has(PortalCanShootThroughIfOpen))
}

// CanPassThrough reports whether the portal can currently be traversed.
func (p *Portal) CanPassThrough() bool {
	return p.Flags.has(PortalCanPassThrough) || (p.Open && p.Flags.has(PortalCanPassThroughIfOpen))
}

// EventMultiplier returns the portal's strength multiplier, defaulting to 1.
func (p *Portal) EventMultiplier() float64 {
	if p.Multiplier == 0 {
		return 1
	}
	return p.Multiplier
}

func (f PortalFlags) has(flags PortalFlags) bool {
	return f&flags == flags
}
