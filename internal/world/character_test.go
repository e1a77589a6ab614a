// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCharacterAction_CanFollowOthers(t *testing.T) {
	tests := []struct {
		kind ActionKind
		want bool
	}{
		{ActionIdle, true},
		{ActionWalking, true},
		{ActionRunning, true},
		{ActionFighting, false},
		{ActionGuarding, false},
		{ActionStunned, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			a := CharacterAction{Kind: tt.kind}
			assert.Equal(t, tt.want, a.CanFollowOthers())
		})
	}
}

func TestCharacterAction_Remaining(t *testing.T) {
	now := time.Now()

	stunned := CharacterAction{Kind: ActionStunned, Until: now.Add(3 * time.Second)}
	assert.InDelta(t, 3*time.Second, stunned.Remaining(now), float64(time.Millisecond))

	expired := CharacterAction{Kind: ActionFighting, Until: now.Add(-time.Second)}
	assert.Zero(t, expired.Remaining(now))

	idle := CharacterAction{Kind: ActionIdle}
	assert.Zero(t, idle.Remaining(now))
}

func TestCharacter_SetActionBumpsSeq(t *testing.T) {
	c := &Character{ID: Ref{Type: TypePlayer, ID: 1}}

	first := c.SetAction(CharacterAction{Kind: ActionFighting})
	second := c.SetAction(CharacterAction{Kind: ActionStunned})

	assert.Greater(t, second, first)
	assert.Equal(t, second, c.Action.Seq)
	assert.Equal(t, ActionStunned, c.Action.Kind)
}

func TestActorState(t *testing.T) {
	s := &ActorState{}
	enemy := Ref{Type: TypePlayer, ID: 3}

	s.AddEnemy(enemy)
	s.AddEnemy(enemy) // idempotent
	assert.Len(t, s.Enemies, 1)
	assert.True(t, s.IsEnemy(enemy))

	s.RemoveEnemy(enemy)
	assert.False(t, s.IsEnemy(enemy))

	assert.False(t, s.Flag("warned"))
	s.SetFlag("warned", true)
	assert.True(t, s.Flag("warned"))
}

func TestGroup_LeaderNeverFollower(t *testing.T) {
	leader := Ref{Type: TypePlayer, ID: 1}
	g := &Group{ID: Ref{Type: TypeGroup, ID: 1}, Leader: leader}

	g.AddFollower(leader)
	assert.Empty(t, g.Followers)

	f := Ref{Type: TypePlayer, ID: 2}
	g.AddFollower(f)
	g.AddFollower(f)
	assert.Equal(t, []Ref{f}, g.Followers)
}

func TestRoom_CharacterIndex(t *testing.T) {
	room := &Room{ID: Ref{Type: TypeRoom, ID: 1}}
	c := Ref{Type: TypeNPC, ID: 5}

	room.AddCharacter(c)
	room.AddCharacter(c)
	assert.Equal(t, []Ref{c}, room.Characters)

	room.RemoveCharacter(c)
	assert.Empty(t, room.Characters)
	room.RemoveCharacter(c) // removing twice is harmless
}

func TestPortal_Sides(t *testing.T) {
	a := Ref{Type: TypeRoom, ID: 1}
	b := Ref{Type: TypeRoom, ID: 2}
	p := &Portal{
		ID:    Ref{Type: TypePortal, ID: 1},
		Room:  a,
		Room2: b,
		Name:  "wooden door",
		Name2: "oak door",
		Flags: PortalCanOpenFromRoom | PortalCanPassThroughIfOpen | PortalCanSeeThroughIfOpen,
	}

	opp, ok := p.OppositeOf(a)
	assert.True(t, ok)
	assert.Equal(t, b, opp)

	_, ok = p.OppositeOf(Ref{Type: TypeRoom, ID: 9})
	assert.False(t, ok)

	assert.Equal(t, "wooden door", p.NameFrom(a))
	assert.Equal(t, "oak door", p.NameFrom(b))

	assert.True(t, p.CanOpenFrom(a))
	assert.False(t, p.CanOpenFrom(b))

	// if-open flags only apply while open.
	assert.False(t, p.CanPassThrough())
	assert.False(t, p.CanSeeThrough())
	p.Open = true
	assert.True(t, p.CanPassThrough())
	assert.True(t, p.CanSeeThrough())
}

func TestRoom_EventMultiplier(t *testing.T) {
	room := &Room{Multipliers: map[EventKind]float64{EventSpeech: 0.5}}
	assert.Equal(t, 0.5, room.EventMultiplier(EventSpeech))
	assert.Equal(t, 1.0, room.EventMultiplier(EventCombat))
}
