// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package handlers

import (
	"bytes"
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/embermud/embermud/internal/action"
	"github.com/embermud/embermud/internal/command"
	"github.com/embermud/embermud/internal/geometry"
	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/schedule"
	"github.com/embermud/embermud/internal/world"
)

const passageFlags = world.PortalCanPassThrough |
	world.PortalCanSeeThrough |
	world.PortalCanHearThrough

const doorFlags = world.PortalCanOpenFromRoom |
	world.PortalCanOpenFromRoom2 |
	world.PortalCanPassThroughIfOpen |
	world.PortalCanSeeThroughIfOpen |
	world.PortalCanHearThroughIfOpen

// fakeSessions records what handlers push through the session layer.
type fakeSessions struct {
	players []world.Ref
	idle    map[world.Ref]time.Duration
	sent    map[world.Ref][]string
	closed  []world.Ref
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		idle: make(map[world.Ref]time.Duration),
		sent: make(map[world.Ref][]string),
	}
}

func (s *fakeSessions) ListPlayers() []world.Ref { return s.players }

func (s *fakeSessions) IdleTime(player world.Ref) time.Duration { return s.idle[player] }

func (s *fakeSessions) Send(player world.Ref, text string) {
	s.sent[player] = append(s.sent[player], text)
}

func (s *fakeSessions) Close(player world.Ref) { s.closed = append(s.closed, player) }

// fixture assembles a realm, the action service, and a fake session
// layer for driving handlers directly.
type fixture struct {
	realm    *world.Realm
	svc      *action.Service
	sessions *fakeSessions
	services *command.Services
	race     *world.Race
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		realm:    world.NewRealm(),
		sessions: newFakeSessions(),
	}
	rng := rand.New(rand.NewSource(3))
	sched := schedule.New(func(any) {})
	t.Cleanup(sched.Stop)
	f.svc = action.NewService(f.realm, perception.New(f.realm, rng), sched, rng)

	f.race = &world.Race{ID: f.realm.NextRef(world.TypeRace), Name: "human"}
	f.realm.Add(f.race)

	f.services = &command.Services{
		Realm:    f.realm,
		Actions:  f.svc,
		Sessions: f.sessions,
	}
	return f
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

func (f *fixture) addPlayer(name string, room *world.Room) *world.Character {
	ch := &world.Character{
		ID:     f.realm.NextRef(world.TypePlayer),
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

// run executes a handler for the player and returns everything
// written to the player's own output.
func (f *fixture) run(t *testing.T, h command.Handler, player world.Ref, args string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	exec := &command.Execution{
		Player:   player,
		Args:     args,
		Output:   &buf,
		Services: f.services,
	}
	err := h(context.Background(), exec)
	return buf.String(), err
}
