// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/embermud/embermud/internal/geometry"
	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/schedule"
	"github.com/embermud/embermud/internal/world"
)

// passageFlags is a plain doorless passage.
const passageFlags = world.PortalCanPassThrough |
	world.PortalCanSeeThrough |
	world.PortalCanHearThrough

// doorFlags is an operable door that only works while open.
const doorFlags = world.PortalCanOpenFromRoom |
	world.PortalCanOpenFromRoom2 |
	world.PortalCanPassThroughIfOpen |
	world.PortalCanSeeThroughIfOpen |
	world.PortalCanHearThroughIfOpen

// fixture assembles a realm, a service with a controllable clock, and
// a scheduler whose dispatches are captured instead of processed.
type fixture struct {
	realm *world.Realm
	sched *schedule.Scheduler
	svc   *Service
	race  *world.Race

	now time.Time

	mu     sync.Mutex
	queued []any
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		realm: world.NewRealm(),
		now:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	rng := rand.New(rand.NewSource(7))
	f.sched = schedule.New(func(ev any) {
		f.mu.Lock()
		f.queued = append(f.queued, ev)
		f.mu.Unlock()
	})
	t.Cleanup(f.sched.Stop)

	f.svc = NewService(f.realm, perception.New(f.realm, rng), f.sched, rng,
		WithClock(func() time.Time { return f.now }))

	f.race = &world.Race{ID: f.realm.NextRef(world.TypeRace), Name: "human"}
	f.realm.Add(f.race)
	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *fixture) drainQueued() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queued
	f.queued = nil
	return out
}

func (f *fixture) addRoom(name string, pos geometry.Point) *world.Room {
	room := &world.Room{ID: f.realm.NextRef(world.TypeRoom), Name: name, Position: pos}
	f.realm.Add(room)
	return room
}

func (f *fixture) link(a, b *world.Room, name string, flags world.PortalFlags) *world.Portal {
	p := &world.Portal{
		ID:    f.realm.NextRef(world.TypePortal),
		Room:  a.ID,
		Room2: b.ID,
		Name:  name,
		Flags: flags,
	}
	f.realm.Add(p)
	a.AddPortal(p.ID)
	b.AddPortal(p.ID)
	return p
}

func (f *fixture) addCharacter(t world.EntityType, name string, room *world.Room) *world.Character {
	ch := &world.Character{
		ID:     f.realm.NextRef(t),
		Name:   name,
		Race:   f.race.ID,
		HP:     20,
		MaxHP:  20,
		Room:   room.ID,
		Gender: world.GenderFemale,
	}
	f.realm.Add(ch)
	room.AddCharacter(ch.ID)
	return ch
}

func (f *fixture) addPlayer(name string, room *world.Room) *world.Character {
	return f.addCharacter(world.TypePlayer, name, room)
}

func (f *fixture) addNPC(name string, room *world.Room, behavior string) *world.Character {
	ch := f.addCharacter(world.TypeNPC, name, room)
	ch.Behavior = behavior
	ch.SpawnRoom = room.ID
	return ch
}

// raceWithStats registers a dedicated race so a character can carry
// specific combat stats.
func (f *fixture) raceWithStats(name string, stats world.Stats) *world.Race {
	race := &world.Race{ID: f.realm.NextRef(world.TypeRace), Name: name, Stats: stats}
	f.realm.Add(race)
	return race
}

// textsFor collects every output line addressed to the player.
func textsFor(outs []Output, player world.Ref) []string {
	var texts []string
	for _, o := range outs {
		if o.Player == player {
			texts = append(texts, o.Text)
		}
	}
	return texts
}

func containsText(outs []Output, player world.Ref, text string) bool {
	for _, t := range textsFor(outs, player) {
		if t == text {
			return true
		}
	}
	return false
}

// hookRecorder records behavior hook invocations without acting on
// them.
type hookRecorder struct {
	calls []string
}

func (h *hookRecorder) record(call string) ([]Output, error) {
	h.calls = append(h.calls, call)
	return nil, nil
}

func (h *hookRecorder) OnSpawn(npc world.Ref) ([]Output, error) {
	return h.record("spawn " + npc.String())
}

func (h *hookRecorder) OnActive(npc world.Ref) ([]Output, error) {
	return h.record("active " + npc.String())
}

func (h *hookRecorder) OnAttack(npc, attacker world.Ref) ([]Output, error) {
	return h.record("attack " + npc.String() + " by " + attacker.String())
}

func (h *hookRecorder) OnCharacterAttacked(npc, attacker, target world.Ref) ([]Output, error) {
	return h.record("saw-attack " + npc.String())
}

func (h *hookRecorder) OnCharacterDied(npc, died, killer world.Ref) ([]Output, error) {
	return h.record("saw-death " + npc.String() + " of " + died.String())
}

func (h *hookRecorder) OnCharacterEntered(npc, entered world.Ref) ([]Output, error) {
	return h.record("entered " + entered.String())
}

func (h *hookRecorder) OnDie(npc, killer world.Ref) ([]Output, error) {
	return h.record("die " + npc.String())
}

func (h *hookRecorder) OnTalk(npc, speaker world.Ref, message string) ([]Output, error) {
	return h.record("talk " + message)
}
