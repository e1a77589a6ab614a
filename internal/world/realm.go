// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package world

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/samber/oops"
)

// Entity is anything a Realm can own.
type Entity interface {
	Ref() Ref
}

// Realm is the single-writer arena of all game entities. It is not
// safe for concurrent use; the engine loop owns it outright and all
// mutation happens during the synchronous processing of one event.
type Realm struct {
	entities map[Ref]Entity
	nextID   uint32

	// Secondary name indices, kept in sync on every insert/remove.
	playersByName map[string]Ref
	racesByName   map[string]Ref

	dirty   RefSet
	removed RefSet
}

// NewRealm creates an empty realm.
func NewRealm() *Realm {
	return &Realm{
		entities:      make(map[Ref]Entity),
		nextID:        1,
		playersByName: make(map[string]Ref),
		racesByName:   make(map[string]Ref),
		dirty:         make(RefSet),
		removed:       make(RefSet),
	}
}

// NextRef reserves a fresh ref of the given type. Ids are monotonic
// and never reused within the lifetime of the realm.
func (r *Realm) NextRef(t EntityType) Ref {
	ref := Ref{Type: t, ID: r.nextID}
	r.nextID++
	return ref
}

// Add inserts the entity, indexes it, and marks it dirty. The entity
// must already carry a ref obtained from NextRef or hydration.
func (r *Realm) Add(e Entity) {
	ref := e.Ref()
	if ref.ID >= r.nextID {
		r.nextID = ref.ID + 1
	}
	r.entities[ref] = e
	r.index(e)
	// Re-adding a ref supersedes any pending removal, otherwise the
	// next persistence batch would carry both a delete and a write
	// for the same live entity.
	r.removed.Remove(ref)
	r.MarkDirty(ref)
}

// Remove deletes the entity and scrubs it from the secondary indices.
// Removing an absent ref is a no-op.
func (r *Realm) Remove(ref Ref) {
	e, ok := r.entities[ref]
	if !ok {
		return
	}
	r.unindex(e)
	delete(r.entities, ref)
	r.dirty.Remove(ref)
	r.removed.Add(ref)
}

func (r *Realm) index(e Entity) {
	switch v := e.(type) {
	case *Character:
		if v.IsPlayer() {
			r.playersByName[strings.ToLower(v.Name)] = v.ID
		}
	case *Race:
		r.racesByName[strings.ToLower(v.Name)] = v.ID
	}
}

func (r *Realm) unindex(e Entity) {
	switch v := e.(type) {
	case *Character:
		if v.IsPlayer() {
			delete(r.playersByName, strings.ToLower(v.Name))
		}
	case *Race:
		delete(r.racesByName, strings.ToLower(v.Name))
	}
}

// Get resolves a ref to its entity.
func (r *Realm) Get(ref Ref) (Entity, bool) {
	e, ok := r.entities[ref]
	return e, ok
}

// Len returns the number of live entities.
func (r *Realm) Len() int { return len(r.entities) }

// Room resolves a room ref, or nil if gone or not a room.
func (r *Realm) Room(ref Ref) *Room {
	if v, ok := r.entities[ref].(*Room); ok {
		return v
	}
	return nil
}

// Portal resolves a portal ref, or nil if gone or not a portal.
func (r *Realm) Portal(ref Ref) *Portal {
	if v, ok := r.entities[ref].(*Portal); ok {
		return v
	}
	return nil
}

// Item resolves an item ref, or nil if gone or not an item.
func (r *Realm) Item(ref Ref) *Item {
	if v, ok := r.entities[ref].(*Item); ok {
		return v
	}
	return nil
}

// Character resolves a player or NPC ref, or nil.
func (r *Realm) Character(ref Ref) *Character {
	if v, ok := r.entities[ref].(*Character); ok {
		return v
	}
	return nil
}

// Race resolves a race ref, or nil.
func (r *Realm) Race(ref Ref) *Race {
	if v, ok := r.entities[ref].(*Race); ok {
		return v
	}
	return nil
}

// Class resolves a class ref, or nil.
func (r *Realm) Class(ref Ref) *Class {
	if v, ok := r.entities[ref].(*Class); ok {
		return v
	}
	return nil
}

// Group resolves a group ref, or nil.
func (r *Realm) Group(ref Ref) *Group {
	if v, ok := r.entities[ref].(*Group); ok {
		return v
	}
	return nil
}

// PlayerByName looks a player up through the name index.
func (r *Realm) PlayerByName(name string) *Character {
	if ref, ok := r.playersByName[strings.ToLower(name)]; ok {
		return r.Character(ref)
	}
	return nil
}

// RaceByName looks a race up through the name index.
func (r *Realm) RaceByName(name string) *Race {
	if ref, ok := r.racesByName[strings.ToLower(name)]; ok {
		return r.Race(ref)
	}
	return nil
}

// Refs returns the refs of all live entities of the given type, sorted.
// With TypeUnknown it returns every ref.
func (r *Realm) Refs(t EntityType) []Ref {
	var refs []Ref
	for ref := range r.entities {
		if t == TypeUnknown || ref.Type == t {
			refs = append(refs, ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	return refs
}

// TotalStats returns the character's effective stats: race base plus
// class bonus. A dangling race or class ref contributes nothing.
func (r *Realm) TotalStats(c *Character) Stats {
	var total Stats
	if race := r.Race(c.Race); race != nil {
		total = total.Add(race.Stats)
	}
	if class := r.Class(c.Class); class != nil {
		total = total.Add(class.Stats)
	}
	return total
}

// MarkDirty flags the entity for persistence on the next drain.
func (r *Realm) MarkDirty(ref Ref) {
	if _, ok := r.entities[ref]; ok {
		r.dirty.Add(ref)
	}
}

// PersistenceRequest asks the persistence boundary to write or remove
// one entity's serialized form.
type PersistenceRequest struct {
	Ref    Ref
	Remove bool
	Data   []byte
}

// TakePersistenceRequests drains the dirty and removed sets into a
// sorted batch of requests, serializing each dirty entity. Called once
// per processed input event.
func (r *Realm) TakePersistenceRequests() []PersistenceRequest {
	if len(r.dirty) == 0 && len(r.removed) == 0 {
		return nil
	}
	reqs := make([]PersistenceRequest, 0, len(r.dirty)+len(r.removed))
	for ref := range r.removed {
		reqs = append(reqs, PersistenceRequest{Ref: ref, Remove: true})
	}
	for ref := range r.dirty {
		e, ok := r.entities[ref]
		if !ok {
			continue
		}
		data, err := json.Marshal(e)
		if err != nil {
			// Entities are plain data; a marshal failure is a
			// programming error on the entity definition.
			continue
		}
		reqs = append(reqs, PersistenceRequest{Ref: ref, Data: data})
	}
	r.dirty = make(RefSet)
	r.removed = make(RefSet)
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Ref.Less(reqs[j].Ref) })
	return reqs
}

// Hydrate deserializes a persisted entity and inserts it without
// marking it dirty. The ref's id advances the realm's next-id water
// mark so hydrated ids are never reissued.
func (r *Realm) Hydrate(ref Ref, data []byte) error {
	e, err := decodeEntity(ref.Type, data)
	if err != nil {
		return oops.Code("HYDRATE_FAILED").With("ref", ref.String()).Wrapf(err, "hydrating %s", ref)
	}
	if e.Ref() != ref {
		return oops.Code("HYDRATE_FAILED").With("ref", ref.String()).
			Errorf("hydrated entity carries ref %s, want %s", e.Ref(), ref)
	}
	if ref.ID >= r.nextID {
		r.nextID = ref.ID + 1
	}
	r.entities[ref] = e
	r.index(e)
	// Hydrating over a removed ref brings it back to life.
	r.removed.Remove(ref)
	return nil
}

func decodeEntity(t EntityType, data []byte) (Entity, error) {
	var e Entity
	switch t {
	case TypeRoom:
		e = &Room{}
	case TypePortal:
		e = &Portal{}
	case TypeItem:
		e = &Item{}
	case TypePlayer, TypeNPC:
		e = &Character{}
	case TypeRace:
		e = &Race{}
	case TypeClass:
		e = &Class{}
	case TypeGroup:
		e = &Group{}
	default:
		return nil, oops.Code("BAD_ENTITY_TYPE").Errorf("cannot hydrate entity type %q", t)
	}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, err
	}
	return e, nil
}
