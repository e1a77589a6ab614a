// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import (
	"fmt"
	"time"

	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/world"
)

// respawnStun is how long a freshly respawned player stays stunned.
const respawnStun = 5 * time.Second

// Die handles a character's death: the room is told, the inventory
// drops, same-room actors are notified, group membership dissolves,
// and the victim respawns, is rescheduled, or is deleted.
func (s *Service) Die(victim, killer world.Ref) ([]Output, error) {
	ch := s.realm.Character(victim)
	if ch == nil {
		return nil, nil
	}
	room := s.realm.Room(ch.Room)

	var outs []Output
	if room != nil {
		ev := perception.Event{
			Kind:     world.EventDeath,
			Origin:   room.ID,
			Excluded: world.NewRefSet(victim),
			Describe: perception.VisualDescriber(
				fmt.Sprintf("%s dies.", ch.Name),
				fmt.Sprintf("You see %s collapse.", ch.Name),
				"You see someone fall in the distance.",
			),
		}
		outs = outputsFromResult(s.perception.PropagateVisual(ev, 1.0))

		// Possessions spill onto the floor.
		for _, iref := range ch.Inventory {
			if s.realm.Item(iref) != nil {
				room.AddItem(iref)
			}
		}
		ch.Inventory = nil

		room.RemoveCharacter(victim)
		s.realm.MarkDirty(room.ID)

		outs = append(outs, s.notifyActors(room, world.NewRefSet(victim), func(npc world.Ref) ([]Output, error) {
			return s.hooks.OnCharacterDied(npc, victim, killer)
		})...)
	}

	if s.hooks != nil && !ch.IsPlayer() && ch.Behavior != "" {
		if hookOuts, err := s.hooks.OnDie(victim, killer); err == nil {
			outs = append(outs, hookOuts...)
		}
	}

	outs = append(outs, s.leaveGroup(ch)...)
	ch.Room = world.Ref{}
	s.realm.MarkDirty(victim)

	switch {
	case ch.IsPlayer():
		outs = append(outs, s.respawnPlayer(ch)...)
	case ch.Respawnable:
		delay := ch.MinRespawn
		if spread := ch.MaxRespawn - ch.MinRespawn; spread > 0 {
			delay += time.Duration(s.rng.Int63n(int64(spread)))
		}
		s.scheduler.DispatchAfter(RespawnNPC{NPC: victim}, delay)
	default:
		s.realm.Remove(victim)
	}

	return outs, nil
}

// respawnPlayer returns the player to its race's starting room with
// 1 HP and a short stun.
func (s *Service) respawnPlayer(ch *world.Character) []Output {
	var outs []Output

	ch.HP = 1
	seq := ch.SetAction(world.CharacterAction{
		Kind:  world.ActionStunned,
		Until: s.now().Add(respawnStun),
	})
	s.scheduler.DispatchCancelableAfter(ResetAction{Character: ch.ID, Seq: seq}, respawnStun)

	race := s.realm.Race(ch.Race)
	if race == nil {
		return outs
	}
	start := s.realm.Room(race.StartRoom)
	if start == nil {
		return outs
	}
	ch.Room = start.ID
	start.AddCharacter(ch.ID)
	s.realm.MarkDirty(start.ID)
	s.realm.MarkDirty(ch.ID)

	outs = append(outs, Output{Player: ch.ID, Text: "You die. Everything goes dark for a while."})
	arrival := perception.Event{
		Kind:     world.EventMovement,
		Origin:   start.ID,
		Excluded: world.NewRefSet(ch.ID),
		Describe: perception.VisualDescriber(
			fmt.Sprintf("%s appears, looking shaken.", ch.Name),
			"Someone appears nearby.",
			"",
		),
	}
	outs = append(outs, outputsFromResult(s.perception.PropagateVisual(arrival, 1.0))...)
	if look, err := s.Look(ch.ID); err == nil {
		outs = append(outs, look...)
	}
	return outs
}

// Respawn returns a dead respawnable NPC to its spawn room at full
// health and lets its behavior run OnSpawn.
func (s *Service) Respawn(ev RespawnNPC) ([]Output, error) {
	ch := s.realm.Character(ev.NPC)
	if ch == nil || !ch.Room.IsZero() {
		return nil, nil
	}
	spawn := s.realm.Room(ch.SpawnRoom)
	if spawn == nil {
		s.realm.Remove(ev.NPC)
		return nil, nil
	}

	ch.HP = ch.MaxHP
	ch.Room = spawn.ID
	ch.SetAction(world.CharacterAction{Kind: world.ActionIdle})
	if ch.Actor != nil {
		ch.Actor.Enemies = nil
	}
	spawn.AddCharacter(ch.ID)
	s.realm.MarkDirty(ev.NPC)
	s.realm.MarkDirty(spawn.ID)

	ev2 := perception.Event{
		Kind:     world.EventMovement,
		Origin:   spawn.ID,
		Excluded: world.NewRefSet(ch.ID),
		Describe: perception.VisualDescriber(fmt.Sprintf("%s arrives.", ch.Name), "Someone arrives.", ""),
	}
	outs := outputsFromResult(s.perception.PropagateVisual(ev2, 1.0))

	if s.hooks != nil && ch.Behavior != "" {
		if hookOuts, err := s.hooks.OnSpawn(ev.NPC); err == nil {
			outs = append(outs, hookOuts...)
		}
	}
	return outs, nil
}
