// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package world holds the authoritative mutable graph of game entities:
// rooms, portals, items, characters, races, classes, and groups, all
// owned by a Realm and addressed by value-type refs.
package world

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// EntityType discriminates the kinds of entities a Realm can hold.
type EntityType uint8

const (
	TypeUnknown EntityType = iota
	TypeRoom
	TypePortal
	TypeItem
	TypePlayer
	TypeNPC
	TypeRace
	TypeClass
	TypeGroup
)

var typeNames = map[EntityType]string{
	TypeRoom:   "room",
	TypePortal: "portal",
	TypeItem:   "item",
	TypePlayer: "player",
	TypeNPC:    "npc",
	TypeRace:   "race",
	TypeClass:  "class",
	TypeGroup:  "group",
}

var typesByName = func() map[string]EntityType {
	m := make(map[string]EntityType, len(typeNames))
	for t, n := range typeNames {
		m[n] = t
	}
	return m
}()

func (t EntityType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseEntityType resolves a type name as used in refs and persistence keys.
func ParseEntityType(s string) (EntityType, error) {
	if t, ok := typesByName[s]; ok {
		return t, nil
	}
	return TypeUnknown, oops.Code("BAD_ENTITY_TYPE").With("type", s).Errorf("unknown entity type %q", s)
}

// Ref is the stable identity of an entity: its type plus a numeric id.
// Refs are plain values; holding one never keeps the referent alive, and
// every use must re-resolve it through the Realm.
type Ref struct {
	Type EntityType
	ID   uint32
}

// IsZero reports whether r is the null ref.
func (r Ref) IsZero() bool {
	return r.Type == TypeUnknown && r.ID == 0
}

// String formats r in the persistence key convention, e.g. "room.000000042".
func (r Ref) String() string {
	return fmt.Sprintf("%s.%09d", r.Type, r.ID)
}

// MarshalText encodes r in its string form, so refs appear as
// "room.000000042" in JSON payloads. The null ref encodes as "".
func (r Ref) MarshalText() ([]byte, error) {
	if r.IsZero() {
		return nil, nil
	}
	return []byte(r.String()), nil
}

// UnmarshalText parses the output of MarshalText.
func (r *Ref) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = Ref{}
		return nil
	}
	parsed, err := ParseRef(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Less orders refs by type, then id.
func (r Ref) Less(o Ref) bool {
	if r.Type != o.Type {
		return r.Type < o.Type
	}
	return r.ID < o.ID
}

// ParseRef parses the output of Ref.String.
func ParseRef(s string) (Ref, error) {
	name, num, ok := strings.Cut(s, ".")
	if !ok {
		return Ref{}, oops.Code("BAD_REF").With("ref", s).Errorf("malformed entity ref %q", s)
	}
	t, err := ParseEntityType(name)
	if err != nil {
		return Ref{}, err
	}
	id, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		return Ref{}, oops.Code("BAD_REF").With("ref", s).Wrapf(err, "malformed entity id in %q", s)
	}
	return Ref{Type: t, ID: uint32(id)}, nil
}

// RefSet is a set of refs, used for exclusion lists and combat memory.
type RefSet map[Ref]struct{}

// NewRefSet builds a set from the given refs.
func NewRefSet(refs ...Ref) RefSet {
	s := make(RefSet, len(refs))
	for _, r := range refs {
		s[r] = struct{}{}
	}
	return s
}

// Add inserts r into the set.
func (s RefSet) Add(r Ref) { s[r] = struct{}{} }

// Remove deletes r from the set.
func (s RefSet) Remove(r Ref) { delete(s, r) }

// Contains reports whether r is in the set.
func (s RefSet) Contains(r Ref) bool {
	_, ok := s[r]
	return ok
}

// addRef appends r to refs if not already present, preserving order.
func addRef(refs []Ref, r Ref) []Ref {
	for _, have := range refs {
		if have == r {
			return refs
		}
	}
	return append(refs, r)
}

// removeRef removes r from refs, preserving order.
func removeRef(refs []Ref, r Ref) []Ref {
	for i, have := range refs {
		if have == r {
			return append(refs[:i], refs[i+1:]...)
		}
	}
	return refs
}
