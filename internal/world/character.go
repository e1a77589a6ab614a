// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package world

import (
	"time"

	"github.com/embermud/embermud/internal/geometry"
)

// Gender of a character, used for pronoun substitution in narration.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderNone   Gender = "none"
)

// Subject returns the subject pronoun for the gender.
func (g Gender) Subject() string {
	switch g {
	case GenderMale:
		return "he"
	case GenderFemale:
		return "she"
	default:
		return "it"
	}
}

// Object returns the object pronoun for the gender.
func (g Gender) Object() string {
	switch g {
	case GenderMale:
		return "him"
	case GenderFemale:
		return "her"
	default:
		return "it"
	}
}

// Possessive returns the possessive pronoun for the gender.
func (g Gender) Possessive() string {
	switch g {
	case GenderMale:
		return "his"
	case GenderFemale:
		return "her"
	default:
		return "its"
	}
}

// Stats are the attribute block combat formulas draw from. Totals are
// race base plus class bonus; equipment bonuses are not implemented.
type Stats struct {
	Strength     int `json:"str,omitempty"`
	Dexterity    int `json:"dex,omitempty"`
	Endurance    int `json:"end,omitempty"`
	Intelligence int `json:"int,omitempty"`
	Faith        int `json:"fth,omitempty"`
}

// Add returns the component-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Strength:     s.Strength + o.Strength,
		Dexterity:    s.Dexterity + o.Dexterity,
		Endurance:    s.Endurance + o.Endurance,
		Intelligence: s.Intelligence + o.Intelligence,
		Faith:        s.Faith + o.Faith,
	}
}

// ActionKind enumerates the character action state machine.
type ActionKind uint8

const (
	ActionIdle ActionKind = iota
	ActionWalking
	ActionRunning
	ActionFighting
	ActionGuarding
	ActionStunned
)

func (k ActionKind) String() string {
	switch k {
	case ActionIdle:
		return "idle"
	case ActionWalking:
		return "walking"
	case ActionRunning:
		return "running"
	case ActionFighting:
		return "fighting"
	case ActionGuarding:
		return "guarding"
	case ActionStunned:
		return "stunned"
	default:
		return "unknown"
	}
}

// CharacterAction is the character's current activity. Fighting and
// Stunned are timed and revert to Idle when Until passes; Seq is a
// generation counter that lets a scheduled reset detect it is stale.
type CharacterAction struct {
	Kind   ActionKind `json:"kind"`
	Target Ref        `json:"target,omitempty"`
	Until  time.Time  `json:"until,omitempty"`
	Seq    uint64     `json:"-"`
}

// CanFollowOthers reports whether the character may trail a group
// leader in this state.
func (a CharacterAction) CanFollowOthers() bool {
	switch a.Kind {
	case ActionIdle, ActionWalking, ActionRunning:
		return true
	default:
		return false
	}
}

// Timed reports whether the action expires on its own.
func (a CharacterAction) Timed() bool {
	return a.Kind == ActionFighting || a.Kind == ActionStunned
}

// Remaining returns how long the action still blocks the character.
// Zero for untimed or already expired actions.
func (a CharacterAction) Remaining(now time.Time) time.Duration {
	if !a.Timed() || !a.Until.After(now) {
		return 0
	}
	return a.Until.Sub(now)
}

// ActorState is the NPC-only behavioral memory: remembered enemies plus
// a scratchpad of behavior-private flags.
type ActorState struct {
	Enemies []Ref           `json:"enemies,omitempty"`
	Flags   map[string]bool `json:"flags,omitempty"`
}

// AddEnemy records the character as an enemy.
func (s *ActorState) AddEnemy(ref Ref) {
	s.Enemies = addRef(s.Enemies, ref)
}

// RemoveEnemy forgets the character.
func (s *ActorState) RemoveEnemy(ref Ref) {
	s.Enemies = removeRef(s.Enemies, ref)
}

// IsEnemy reports whether the character is remembered as an enemy.
func (s *ActorState) IsEnemy(ref Ref) bool {
	for _, e := range s.Enemies {
		if e == ref {
			return true
		}
	}
	return false
}

// Flag returns the named scratch flag.
func (s *ActorState) Flag(name string) bool {
	return s.Flags[name]
}

// SetFlag sets the named scratch flag.
func (s *ActorState) SetFlag(name string, value bool) {
	if s.Flags == nil {
		s.Flags = make(map[string]bool)
	}
	s.Flags[name] = value
}

// Character is the shared component behind players (TypePlayer) and
// NPCs (TypeNPC); the ref's type discriminates the two.
type Character struct {
	ID          Ref             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Race        Ref             `json:"race"`
	Class       Ref             `json:"class,omitempty"`
	Gender      Gender          `json:"gender,omitempty"`
	Direction   geometry.Vector `json:"direction"`
	Gold        int             `json:"gold,omitempty"`
	HP          int             `json:"hp"`
	MaxHP       int             `json:"maxHp"`
	MP          int             `json:"mp"`
	MaxMP       int             `json:"maxMp"`
	Inventory   []Ref           `json:"inventory,omitempty"`
	Weight      int             `json:"weight,omitempty"`
	Height      int             `json:"height,omitempty"`
	Room        Ref             `json:"room"`
	Group       Ref             `json:"group,omitempty"`
	Action      CharacterAction `json:"action,omitempty"`

	// Player-only.
	PasswordHash string `json:"passwordHash,omitempty"`
	Admin        bool   `json:"admin,omitempty"`

	// NPC-only.
	Behavior    string        `json:"behavior,omitempty"`
	Actor       *ActorState   `json:"actor,omitempty"`
	Respawnable bool          `json:"respawnable,omitempty"`
	MinRespawn  time.Duration `json:"minRespawn,omitempty"`
	MaxRespawn  time.Duration `json:"maxRespawn,omitempty"`
	SpawnRoom   Ref           `json:"spawnRoom,omitempty"`
}

// Ref returns the character's identity.
func (c *Character) Ref() Ref { return c.ID }

// IsPlayer reports whether the character is controlled by a session.
func (c *Character) IsPlayer() bool { return c.ID.Type == TypePlayer }

// ActorState returns the NPC behavioral state, materializing it on
// first use. Only meaningful for NPCs.
func (c *Character) ActorState() *ActorState {
	if c.Actor == nil {
		c.Actor = &ActorState{}
	}
	return c.Actor
}

// SetAction installs a new action and bumps the generation counter so
// any reset scheduled for the previous action becomes a no-op.
func (c *Character) SetAction(a CharacterAction) uint64 {
	a.Seq = c.Action.Seq + 1
	c.Action = a
	return a.Seq
}

// AddItem appends the item to the inventory.
func (c *Character) AddItem(ref Ref) {
	c.Inventory = addRef(c.Inventory, ref)
}

// RemoveItem removes the item from the inventory.
func (c *Character) RemoveItem(ref Ref) {
	c.Inventory = removeRef(c.Inventory, ref)
}

// Race describes a playable or spawnable species.
type Race struct {
	ID          Ref    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Stats       Stats  `json:"stats"`
	StartRoom   Ref    `json:"startRoom"`
	Height      int    `json:"height,omitempty"`
	Weight      int    `json:"weight,omitempty"`
}

// Ref returns the race's identity.
func (r *Race) Ref() Ref { return r.ID }

// Class is an optional stat-modifying profession.
type Class struct {
	ID    Ref    `json:"id"`
	Name  string `json:"name"`
	Stats Stats  `json:"stats"`
}

// Ref returns the class's identity.
func (c *Class) Ref() Ref { return c.ID }

// Group is a leader with followers. A group never exists without at
// least one follower, and the leader is never also a follower.
type Group struct {
	ID        Ref   `json:"id"`
	Leader    Ref   `json:"leader"`
	Followers []Ref `json:"followers"`
}

// Ref returns the group's identity.
func (g *Group) Ref() Ref { return g.ID }

// AddFollower appends the character to the follower list.
func (g *Group) AddFollower(ref Ref) {
	if ref == g.Leader {
		return
	}
	g.Followers = addRef(g.Followers, ref)
}

// RemoveFollower removes the character from the follower list.
func (g *Group) RemoveFollower(ref Ref) {
	g.Followers = removeRef(g.Followers, ref)
}
