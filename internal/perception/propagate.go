// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package perception

import (
	"math"
	"math/rand"
	"sort"

	"github.com/embermud/embermud/internal/world"
)

// MinStrength is the attenuation floor: a room reached below this
// strength neither notices the event nor expands it further.
const MinStrength = 0.1

// facingLimit is the widest angle between an observer's facing and
// the direction of a visual event that still lets them see it.
const facingLimit = math.Pi / 4

// Engine computes perception propagation over a realm. It only reads
// the realm; missing rooms, portals, or characters silently drop the
// affected branch, since the graph may lose entities between the
// logically related steps of one action.
type Engine struct {
	realm *world.Realm
	rng   *rand.Rand
}

// New creates an engine over the realm. rng drives the randomized
// parts of description rendering and may be seeded for tests.
func New(realm *world.Realm, rng *rand.Rand) *Engine {
	return &Engine{realm: realm, rng: rng}
}

// Rand exposes the engine's randomness source for describers.
func (e *Engine) Rand() *rand.Rand { return e.rng }

// Realm exposes the realm the engine reads.
func (e *Engine) Realm() *world.Realm { return e.realm }

// visit is one pending flood-fill expansion.
type visit struct {
	room     world.Ref
	strength float64 // strength at the room, after the room's own multiplier
}

// PropagateVisual flood-fills a visual event from its origin at the
// given base strength and renders it for every eligible observer.
func (e *Engine) PropagateVisual(ev Event, base float64) Result {
	return e.render(ev, e.fill(ev, base, true), true)
}

// PropagateAudible flood-fills an audible event. Sound ignores the
// field-of-view rules and is additionally weighted by the inverse
// distance between adjacent rooms.
func (e *Engine) PropagateAudible(ev Event, base float64) Result {
	return e.render(ev, e.fill(ev, base, false), false)
}

// fill computes the strongest strength at which each room perceives
// the event. Re-visits merge by max and only re-expand on improvement,
// so strength never sums across multiple paths.
func (e *Engine) fill(ev Event, base float64, visual bool) map[world.Ref]float64 {
	best := make(map[world.Ref]float64)

	origin := e.realm.Room(ev.Origin)
	if origin == nil {
		return best
	}

	start := base * origin.EventMultiplier(ev.Kind)
	if start < MinStrength {
		return best
	}
	best[ev.Origin] = start
	queue := []visit{{room: ev.Origin, strength: start}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.strength < best[cur.room] {
			// A stronger visit was queued after this one.
			continue
		}
		room := e.realm.Room(cur.room)
		if room == nil {
			continue
		}

		for _, pref := range room.Portals {
			portal := e.realm.Portal(pref)
			if portal == nil {
				continue
			}
			next, ok := portal.OppositeOf(cur.room)
			if !ok {
				continue
			}
			target := e.realm.Room(next)
			if target == nil {
				continue
			}
			if visual {
				if !portal.CanSeeThrough() || !e.isWithinSight(ev, target, room) {
					continue
				}
			} else if !portal.CanHearThrough() {
				continue
			}

			carried := cur.strength * portal.EventMultiplier()
			if !visual {
				if dist := room.Position.Dist(target.Position); dist > 0 {
					carried *= 1 / (dist / 10)
				}
			}
			carried *= target.EventMultiplier(ev.Kind)
			if carried < MinStrength || carried <= best[next] {
				continue
			}
			best[next] = carried
			queue = append(queue, visit{room: next, strength: carried})
		}
	}

	return best
}

// render produces one line per eligible observer across the reached
// rooms. Rooms are walked in ref order so that randomized describers
// consume the engine's rng deterministically for a given seed.
func (e *Engine) render(ev Event, reached map[world.Ref]float64, visual bool) Result {
	res := Result{
		Output:    make(map[world.Ref]string),
		Perceived: make(world.RefSet),
	}

	rooms := make([]world.Ref, 0, len(reached))
	for ref := range reached {
		rooms = append(rooms, ref)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Less(rooms[j]) })

	for _, rref := range rooms {
		room := e.realm.Room(rref)
		if room == nil {
			continue
		}
		strength := reached[rref]
		for _, cref := range room.Characters {
			if ev.Excluded.Contains(cref) || res.Perceived.Contains(cref) {
				continue
			}
			ch := e.realm.Character(cref)
			if ch == nil {
				continue
			}
			if visual && !e.isFacing(ch, room, ev) {
				continue
			}
			text, ok := ev.Describe(strength, ch, room)
			if !ok {
				continue
			}
			res.Perceived.Add(cref)
			if ch.IsPlayer() {
				res.Output[cref] = text
			}
		}
	}

	return res
}

// isFacing reports whether the character is looking roughly toward the
// event's origin. Observers in the origin room itself always qualify.
func (e *Engine) isFacing(ch *world.Character, room *world.Room, ev Event) bool {
	if room.ID == ev.Origin || room.ID == ev.Destination {
		return true
	}
	origin := e.realm.Room(ev.Origin)
	if origin == nil {
		return false
	}
	toward := origin.Position.Sub(room.Position).Normalize()
	if ch.Direction.IsZero() {
		return false
	}
	return ch.Direction.Angle(toward) <= facingLimit
}
