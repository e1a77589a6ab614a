// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package actor

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermud/embermud/internal/action"
	"github.com/embermud/embermud/internal/geometry"
	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/schedule"
	"github.com/embermud/embermud/internal/world"
)

const passageFlags = world.PortalCanPassThrough |
	world.PortalCanSeeThrough |
	world.PortalCanHearThrough

type fixture struct {
	realm *world.Realm
	sched *schedule.Scheduler
	svc   *action.Service
	hooks *Hooks
	race  *world.Race
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		realm: world.NewRealm(),
		now:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	rng := rand.New(rand.NewSource(11))
	f.sched = schedule.New(func(any) {})
	t.Cleanup(f.sched.Stop)

	f.svc = action.NewService(f.realm, perception.New(f.realm, rng), f.sched, rng,
		action.WithClock(func() time.Time { return f.now }))
	f.hooks = New(f.svc, f.sched)
	f.svc.SetHooks(f.hooks)

	f.race = &world.Race{ID: f.realm.NextRef(world.TypeRace), Name: "human"}
	f.realm.Add(f.race)
	return f
}

func (f *fixture) addRoom(name string, pos geometry.Point) *world.Room {
	room := &world.Room{ID: f.realm.NextRef(world.TypeRoom), Name: name, Position: pos}
	f.realm.Add(room)
	return room
}

func (f *fixture) link(a, b *world.Room, name string) *world.Portal {
	p := &world.Portal{
		ID:    f.realm.NextRef(world.TypePortal),
		Room:  a.ID,
		Room2: b.ID,
		Name:  name,
		Flags: passageFlags,
	}
	f.realm.Add(p)
	a.AddPortal(p.ID)
	b.AddPortal(p.ID)
	return p
}

func (f *fixture) addCharacter(t world.EntityType, name string, room *world.Room) *world.Character {
	ch := &world.Character{
		ID:    f.realm.NextRef(t),
		Name:  name,
		Race:  f.race.ID,
		HP:    20,
		MaxHP: 20,
		Room:  room.ID,
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

func hasText(outs []action.Output, player world.Ref, text string) bool {
	for _, o := range outs {
		if o.Player == player && o.Text == text {
			return true
		}
	}
	return false
}

func TestGuardRetaliatesWhenAttacked(t *testing.T) {
	f := newFixture(t)
	plaza := f.addRoom("Plaza", geometry.Point{})
	guard := f.addNPC("Guard", plaza, BehaviorGuard)
	alice := f.addPlayer("Alice", plaza)

	_, err := f.svc.Kill(alice.ID, guard.ID)
	require.NoError(t, err)

	assert.True(t, guard.ActorState().IsEnemy(alice.ID))
	assert.Equal(t, world.ActionFighting, guard.Action.Kind)
	assert.Equal(t, alice.ID, guard.Action.Target)
}

func TestGuardWarnsThenIntervenes(t *testing.T) {
	f := newFixture(t)
	plaza := f.addRoom("Plaza", geometry.Point{})
	guard := f.addNPC("Guard", plaza, BehaviorGuard)
	alice := f.addPlayer("Alice", plaza)
	bob := f.addPlayer("Bob", plaza)

	outs, err := f.svc.Kill(alice.ID, bob.ID)
	require.NoError(t, err)

	assert.True(t, hasText(outs, alice.ID, `Guard says, "Stop that at once, Alice, or face the law."`))
	assert.False(t, guard.ActorState().IsEnemy(alice.ID))
	assert.Equal(t, world.ActionIdle, guard.Action.Kind)

	// A repeat offense after the warning turns the guard hostile.
	f.now = f.now.Add(5 * time.Second)
	_, err = f.svc.Kill(alice.ID, bob.ID)
	require.NoError(t, err)

	assert.True(t, guard.ActorState().IsEnemy(alice.ID))
	assert.Equal(t, world.ActionFighting, guard.Action.Kind)
	assert.Equal(t, alice.ID, guard.Action.Target)
}

func TestGuardAttacksRememberedEnemyOnSight(t *testing.T) {
	f := newFixture(t)
	street := f.addRoom("Street", geometry.Point{})
	plaza := f.addRoom("Plaza", geometry.Point{X: 10})
	lane := f.link(street, plaza, "lane")

	guard := f.addNPC("Guard", plaza, BehaviorGuard)
	alice := f.addPlayer("Alice", street)
	guard.ActorState().AddEnemy(alice.ID)

	_, err := f.svc.Move(alice.ID, lane.ID)
	require.NoError(t, err)

	assert.Equal(t, world.ActionFighting, guard.Action.Kind)
	assert.Equal(t, alice.ID, guard.Action.Target)
}

func TestGuardHuntsEnemyWhenReactivated(t *testing.T) {
	f := newFixture(t)
	plaza := f.addRoom("Plaza", geometry.Point{})
	guard := f.addNPC("Guard", plaza, BehaviorGuard)
	alice := f.addPlayer("Alice", plaza)
	guard.ActorState().AddEnemy(alice.ID)

	_, err := f.hooks.OnActive(guard.ID)
	require.NoError(t, err)

	assert.Equal(t, world.ActionFighting, guard.Action.Kind)
	assert.Equal(t, alice.ID, guard.Action.Target)
}

func TestGuardSpawnDoesNotReplaceTimers(t *testing.T) {
	f := newFixture(t)
	plaza := f.addRoom("Plaza", geometry.Point{})
	guard := f.addNPC("Guard", plaza, BehaviorGuard)

	_, err := f.hooks.OnSpawn(guard.ID)
	require.NoError(t, err)
	_, err = f.hooks.OnSpawn(guard.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.sched.Pending())
}

func TestHousewifeGreetsEachPlayerOnce(t *testing.T) {
	f := newFixture(t)
	street := f.addRoom("Street", geometry.Point{})
	kitchen := f.addRoom("Kitchen", geometry.Point{X: 10})
	door := f.link(street, kitchen, "doorway")

	f.addNPC("Greta", kitchen, BehaviorHousewife)
	alice := f.addPlayer("Alice", street)

	greeting := `Greta says, "Good day to you, Alice."`

	outs, err := f.svc.Move(alice.ID, door.ID)
	require.NoError(t, err)
	assert.True(t, hasText(outs, alice.ID, greeting))

	_, err = f.svc.Move(alice.ID, door.ID)
	require.NoError(t, err)
	outs, err = f.svc.Move(alice.ID, door.ID)
	require.NoError(t, err)
	assert.False(t, hasText(outs, alice.ID, greeting))
}

func TestHousewifeCriesForHelpOnce(t *testing.T) {
	f := newFixture(t)
	kitchen := f.addRoom("Kitchen", geometry.Point{})
	greta := f.addNPC("Greta", kitchen, BehaviorHousewife)
	alice := f.addPlayer("Alice", kitchen)

	cry := `Greta shouts, "Somebody help, guards."`

	outs, err := f.svc.Kill(alice.ID, greta.ID)
	require.NoError(t, err)
	assert.True(t, hasText(outs, alice.ID, cry))
	assert.True(t, greta.ActorState().IsEnemy(alice.ID))

	f.now = f.now.Add(5 * time.Second)
	outs, err = f.svc.Kill(alice.ID, greta.ID)
	require.NoError(t, err)
	assert.False(t, hasText(outs, alice.ID, cry))
}

func TestHousewifeScoldsBystanderFightOnce(t *testing.T) {
	f := newFixture(t)
	kitchen := f.addRoom("Kitchen", geometry.Point{})
	greta := f.addNPC("Greta", kitchen, BehaviorHousewife)
	alice := f.addPlayer("Alice", kitchen)
	bob := f.addPlayer("Bob", kitchen)

	scold := `Greta says, "Take that brawling somewhere else."`

	outs, err := f.svc.Kill(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, hasText(outs, alice.ID, scold))
	assert.True(t, greta.ActorState().Flag(flagHousewifeScoldedOnce))

	f.now = f.now.Add(5 * time.Second)
	outs, err = f.svc.Kill(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, hasText(outs, alice.ID, scold))
}

func TestHousewifeReplacesHerOwnTimer(t *testing.T) {
	f := newFixture(t)
	kitchen := f.addRoom("Kitchen", geometry.Point{})
	greta := f.addNPC("Greta", kitchen, BehaviorHousewife)
	alice := f.addPlayer("Alice", kitchen)

	_, err := f.hooks.OnSpawn(greta.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.sched.Pending())

	outs, err := f.hooks.OnActive(greta.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.sched.Pending())

	// Gossip reaches the player in the room.
	var heard bool
	for _, o := range outs {
		if o.Player == alice.ID {
			heard = true
		}
	}
	assert.True(t, heard)
}

func TestUnknownBehaviorIsInert(t *testing.T) {
	f := newFixture(t)
	kitchen := f.addRoom("Kitchen", geometry.Point{})
	npc := f.addNPC("Cat", kitchen, "cat")

	outs, err := f.hooks.OnActive(npc.ID)
	require.NoError(t, err)
	assert.Empty(t, outs)
}

func TestDeathCancelsPendingActivation(t *testing.T) {
	f := newFixture(t)
	kitchen := f.addRoom("Kitchen", geometry.Point{})
	greta := f.addNPC("Greta", kitchen, BehaviorHousewife)

	_, err := f.hooks.OnSpawn(greta.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.sched.Pending())

	_, err = f.svc.Die(greta.ID, world.Ref{})
	require.NoError(t, err)
	assert.Equal(t, 0, f.sched.Pending())
}
