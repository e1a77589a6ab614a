// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package actor

import (
	"fmt"
	"strings"

	"github.com/embermud/embermud/internal/action"
	"github.com/embermud/embermud/internal/world"
)

// Housewives are ambient color. They gossip on a timer, greet
// newcomers once, and panic loudly when violence breaks out. Unlike
// guards they reschedule themselves on every wake-up, canceling the
// previous timer so chatter never doubles up.

const (
	housewifeGossipDelayMs   = 20000
	housewifeGossipSpreadMs  = 20000
	flagHousewifePanicked    = "panicked"
	flagHousewifeScoldedOnce = "scolded"
)

var housewifeGossip = []string{
	"Have you heard what the miller's daughter did",
	"These roads get worse every season",
	"Fresh bread, if only the oven would hold its heat",
	"My husband swears he saw lights over the old tower",
}

func (h *Hooks) housewifeSpawn(ch *world.Character) ([]action.Output, error) {
	h.rescheduleGossip(ch.ID)
	return nil, nil
}

// housewifeActive gossips, then arms the next activation.
func (h *Hooks) housewifeActive(ch *world.Character) ([]action.Output, error) {
	h.rescheduleGossip(ch.ID)
	if ch.Action.Kind != world.ActionIdle {
		return nil, nil
	}
	line := housewifeGossip[h.svc.Rand().Intn(len(housewifeGossip))]
	return h.svc.Say(ch.ID, line)
}

func (h *Hooks) rescheduleGossip(npc world.Ref) {
	delay := housewifeGossipDelayMs + h.svc.Rand().Int63n(housewifeGossipSpreadMs)
	h.activateLater(npc, true, delay)
}

// housewifeAttacked shrieks for help and remembers the assailant.
func (h *Hooks) housewifeAttacked(ch *world.Character, attacker world.Ref) ([]action.Output, error) {
	state := ch.ActorState()
	state.AddEnemy(attacker)
	if state.Flag(flagHousewifePanicked) {
		return nil, nil
	}
	state.SetFlag(flagHousewifePanicked, true)
	outs, err := h.svc.Shout(ch.ID, "Somebody help, guards")
	if action.IsRejection(err) {
		return outs, nil
	}
	return outs, err
}

// housewifeSawAttack scolds the fighters, once.
func (h *Hooks) housewifeSawAttack(ch *world.Character, attacker, target world.Ref) ([]action.Output, error) {
	if attacker == ch.ID || target == ch.ID {
		return nil, nil
	}
	state := ch.ActorState()
	if state.Flag(flagHousewifeScoldedOnce) {
		return nil, nil
	}
	state.SetFlag(flagHousewifeScoldedOnce, true)
	return h.svc.Say(ch.ID, "Take that brawling somewhere else")
}

// housewifeSawEntry greets each newcomer the first time.
func (h *Hooks) housewifeSawEntry(ch *world.Character, entered world.Ref) ([]action.Output, error) {
	visitor := h.svc.Realm().Character(entered)
	if visitor == nil || !visitor.IsPlayer() {
		return nil, nil
	}
	state := ch.ActorState()
	greeted := "greeted:" + entered.String()
	if state.Flag(greeted) {
		return nil, nil
	}
	state.SetFlag(greeted, true)
	return h.svc.Say(ch.ID, fmt.Sprintf("Good day to you, %s", visitor.Name))
}

// housewifeHeard answers a direct greeting.
func (h *Hooks) housewifeHeard(ch *world.Character, speaker world.Ref, message string) ([]action.Output, error) {
	talker := h.svc.Realm().Character(speaker)
	if talker == nil || !talker.IsPlayer() {
		return nil, nil
	}
	lowered := strings.ToLower(message)
	if strings.Contains(lowered, "hello") || strings.Contains(lowered, strings.ToLower(ch.Name)) {
		return h.svc.Say(ch.ID, fmt.Sprintf("Hello yourself, %s", talker.Name))
	}
	return nil, nil
}
