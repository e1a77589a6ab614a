// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package actor gives NPCs their autonomous behavior. Behaviors form a
// closed set dispatched by name, so adding one is a compile-checked
// switch arm rather than a new dynamic type. Hooks run on the engine
// goroutine and call straight back into the action layer; anything a
// behavior wants to do later it must schedule explicitly.
package actor

import (
	"github.com/embermud/embermud/internal/action"
	"github.com/embermud/embermud/internal/schedule"
	"github.com/embermud/embermud/internal/world"
)

// Behavior names, matched against Character.Behavior.
const (
	BehaviorGuard     = "guard"
	BehaviorHousewife = "housewife"
)

// Hooks implements action.ActorHooks over the closed behavior set.
type Hooks struct {
	svc   *action.Service
	sched *schedule.Scheduler

	// Pending self-activation per NPC, for behaviors that cancel and
	// reschedule on every wake-up.
	pending map[world.Ref]schedule.Handle
}

// New creates the behavior dispatcher.
func New(svc *action.Service, sched *schedule.Scheduler) *Hooks {
	return &Hooks{
		svc:     svc,
		sched:   sched,
		pending: make(map[world.Ref]schedule.Handle),
	}
}

var _ action.ActorHooks = (*Hooks)(nil)

// npc resolves the ref to a live NPC with a behavior, or nil.
func (h *Hooks) npc(ref world.Ref) *world.Character {
	ch := h.svc.Realm().Character(ref)
	if ch == nil || ch.IsPlayer() || ch.Behavior == "" {
		return nil
	}
	return ch
}

// OnSpawn runs when the NPC first enters the world or respawns.
func (h *Hooks) OnSpawn(npc world.Ref) ([]action.Output, error) {
	ch := h.npc(npc)
	if ch == nil {
		return nil, nil
	}
	switch ch.Behavior {
	case BehaviorGuard:
		return h.guardSpawn(ch)
	case BehaviorHousewife:
		return h.housewifeSpawn(ch)
	default:
		return nil, nil
	}
}

// OnActive runs when the NPC's action expires or a scheduled
// activation fires.
func (h *Hooks) OnActive(npc world.Ref) ([]action.Output, error) {
	ch := h.npc(npc)
	if ch == nil {
		return nil, nil
	}
	switch ch.Behavior {
	case BehaviorGuard:
		return h.guardActive(ch)
	case BehaviorHousewife:
		return h.housewifeActive(ch)
	default:
		return nil, nil
	}
}

// OnAttack runs when the NPC itself is struck.
func (h *Hooks) OnAttack(npc, attacker world.Ref) ([]action.Output, error) {
	ch := h.npc(npc)
	if ch == nil {
		return nil, nil
	}
	switch ch.Behavior {
	case BehaviorGuard:
		return h.guardAttacked(ch, attacker)
	case BehaviorHousewife:
		return h.housewifeAttacked(ch, attacker)
	default:
		return nil, nil
	}
}

// OnCharacterAttacked runs for bystander NPCs when combat breaks out
// in their room.
func (h *Hooks) OnCharacterAttacked(npc, attacker, target world.Ref) ([]action.Output, error) {
	ch := h.npc(npc)
	if ch == nil {
		return nil, nil
	}
	switch ch.Behavior {
	case BehaviorGuard:
		return h.guardSawAttack(ch, attacker, target)
	case BehaviorHousewife:
		return h.housewifeSawAttack(ch, attacker, target)
	default:
		return nil, nil
	}
}

// OnCharacterDied runs for NPCs in the room where a character died.
func (h *Hooks) OnCharacterDied(npc, died, _ world.Ref) ([]action.Output, error) {
	ch := h.npc(npc)
	if ch == nil {
		return nil, nil
	}
	// Whatever the behavior, a dead character stops being an enemy.
	ch.ActorState().RemoveEnemy(died)

	if ch.Behavior == BehaviorHousewife {
		return h.svc.Say(ch.ID, "Oh my goodness")
	}
	return nil, nil
}

// OnCharacterEntered runs for NPCs in a room someone just entered.
func (h *Hooks) OnCharacterEntered(npc, entered world.Ref) ([]action.Output, error) {
	ch := h.npc(npc)
	if ch == nil {
		return nil, nil
	}
	switch ch.Behavior {
	case BehaviorGuard:
		return h.guardSawEntry(ch, entered)
	case BehaviorHousewife:
		return h.housewifeSawEntry(ch, entered)
	default:
		return nil, nil
	}
}

// OnDie runs when the NPC itself dies.
func (h *Hooks) OnDie(npc, _ world.Ref) ([]action.Output, error) {
	if handle, ok := h.pending[npc]; ok {
		handle.Cancel()
		delete(h.pending, npc)
	}
	return nil, nil
}

// OnTalk runs for NPCs that heard speech.
func (h *Hooks) OnTalk(npc, speaker world.Ref, message string) ([]action.Output, error) {
	ch := h.npc(npc)
	if ch == nil {
		return nil, nil
	}
	if ch.Behavior == BehaviorHousewife {
		return h.housewifeHeard(ch, speaker, message)
	}
	return nil, nil
}

// activateLater schedules a cancelable self-activation, replacing any
// activation already pending for the NPC.
func (h *Hooks) activateLater(npc world.Ref, cancelPrevious bool, delay int64) {
	if cancelPrevious {
		if handle, ok := h.pending[npc]; ok {
			handle.Cancel()
		}
	}
	h.pending[npc] = h.sched.DispatchCancelableAfter(action.ActivateActor{Actor: npc}, msToDuration(delay))
}
