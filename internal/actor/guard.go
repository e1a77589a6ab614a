// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package actor

import (
	"fmt"
	"time"

	"github.com/embermud/embermud/internal/action"
	"github.com/embermud/embermud/internal/world"
)

// Guards keep the peace. They remember everyone who started a fight in
// front of them and attack remembered enemies on sight. A guard never
// cancels its own pending activation: combat expiry reactivates it, so
// a second timer would only race the first.

const guardPatrolDelayMs = 8000

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func (h *Hooks) guardSpawn(ch *world.Character) ([]action.Output, error) {
	h.activateLater(ch.ID, false, guardPatrolDelayMs)
	return nil, nil
}

// guardActive hunts for a remembered enemy in the guard's room.
func (h *Hooks) guardActive(ch *world.Character) ([]action.Output, error) {
	if !ch.Action.CanFollowOthers() && ch.Action.Kind != world.ActionIdle {
		return nil, nil
	}
	enemy := h.enemyInRoom(ch)
	if enemy.IsZero() {
		return nil, nil
	}
	outs, err := h.svc.Kill(ch.ID, enemy)
	if action.IsRejection(err) {
		return outs, nil
	}
	return outs, err
}

// guardAttacked retaliates and marks the attacker.
func (h *Hooks) guardAttacked(ch *world.Character, attacker world.Ref) ([]action.Output, error) {
	ch.ActorState().AddEnemy(attacker)
	outs, err := h.svc.Kill(ch.ID, attacker)
	if action.IsRejection(err) {
		// Stunned or mid-swing. Combat expiry will reactivate us.
		return outs, nil
	}
	return outs, err
}

// guardSawAttack warns an aggressor once, then treats them as an enemy.
func (h *Hooks) guardSawAttack(ch *world.Character, attacker, target world.Ref) ([]action.Output, error) {
	if attacker == ch.ID || target == ch.ID {
		return nil, nil
	}
	state := ch.ActorState()
	if state.IsEnemy(attacker) {
		return h.guardActive(ch)
	}
	warned := "warned:" + attacker.String()
	if !state.Flag(warned) {
		state.SetFlag(warned, true)
		if aggressor := h.svc.Realm().Character(attacker); aggressor != nil {
			return h.svc.Say(ch.ID, fmt.Sprintf("Stop that at once, %s, or face the law", aggressor.Name))
		}
		return nil, nil
	}
	// Warned before and at it again.
	state.AddEnemy(attacker)
	return h.guardActive(ch)
}

// guardSawEntry attacks a remembered enemy walking in.
func (h *Hooks) guardSawEntry(ch *world.Character, entered world.Ref) ([]action.Output, error) {
	if !ch.ActorState().IsEnemy(entered) {
		return nil, nil
	}
	outs, err := h.svc.Kill(ch.ID, entered)
	if action.IsRejection(err) {
		return outs, nil
	}
	return outs, err
}

// enemyInRoom returns the first remembered enemy present in the
// guard's room, in stable ref order.
func (h *Hooks) enemyInRoom(ch *world.Character) world.Ref {
	room := h.svc.Realm().Room(ch.Room)
	if room == nil {
		return world.Ref{}
	}
	state := ch.ActorState()
	for _, occupant := range room.Characters {
		if state.IsEnemy(occupant) {
			return occupant
		}
	}
	return world.Ref{}
}
