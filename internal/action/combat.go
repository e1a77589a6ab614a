// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import (
	"fmt"
	"math"
	"time"

	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/world"
)

// minAttackDuration floors the post-attack cooldown. The duration
// formula goes to zero at 160 Dexterity and negative beyond it, so
// very fast attackers still pay a minimum price.
const minAttackDuration = 500 * time.Millisecond

// Kill swings at the defender: one hit roll, one damage roll, a
// cooldown, and narration for everyone watching. A defender dropping
// to zero HP dies as part of the same action.
func (s *Service) Kill(attacker, defender world.Ref) ([]Output, error) {
	atk := s.realm.Character(attacker)
	def := s.realm.Character(defender)
	if atk == nil {
		return nil, Reject("You are nowhere.")
	}
	if def == nil || def.Room != atk.Room {
		return nil, Reject("They are not here.")
	}
	if attacker == defender {
		return nil, Reject("Suicide is not the answer.")
	}
	if msg := s.stunMessage(atk); msg != "" {
		return nil, Reject(msg)
	}
	room := s.realm.Room(atk.Room)
	if room == nil {
		return nil, Reject("You are nowhere.")
	}

	atkStats := s.realm.TotalStats(atk)
	defStats := s.realm.TotalStats(def)

	hitChance := 256 * (float64(80+atkStats.Dexterity) / 160) * (float64(100-defStats.Dexterity) / 100)
	damage := 0
	if roll := s.rng.Intn(256); float64(roll) <= hitChance {
		maxDamage := 20 * (float64(atkStats.Strength) / 40) * (float64(80-defStats.Endurance) / 80)
		if maxDamage < 0 {
			maxDamage = 0
		}
		damage = 1 + int(float64(s.rng.Intn(256))*maxDamage/256)
	}

	duration := 4000*time.Millisecond - time.Duration(25*atkStats.Dexterity)*time.Millisecond
	if duration < minAttackDuration {
		duration = minAttackDuration
	}
	now := s.now()
	seq := atk.SetAction(world.CharacterAction{
		Kind:   world.ActionFighting,
		Target: defender,
		Until:  now.Add(duration),
	})
	s.realm.MarkDirty(attacker)
	s.scheduler.DispatchCancelableAfter(ResetAction{Character: attacker, Seq: seq}, duration)

	phrase := s.pickCombatPhrase(def, damage > 0)
	ev := perception.Event{
		Kind:     world.EventCombat,
		Origin:   room.ID,
		Excluded: world.NewRefSet(),
		Describe: combatDescriber(phrase, atk, def),
	}
	outs := outputsFromResult(s.perception.PropagateVisual(ev, 1.0))

	if damage > 0 {
		def.HP -= damage
		s.realm.MarkDirty(defender)
	}

	// The defender's behavior reacts first, then bystanders.
	if s.hooks != nil && !def.IsPlayer() && def.Behavior != "" && def.HP > 0 {
		if hookOuts, err := s.hooks.OnAttack(defender, attacker); err == nil {
			outs = append(outs, hookOuts...)
		}
	}
	outs = append(outs, s.notifyActors(room, world.NewRefSet(attacker, defender), func(npc world.Ref) ([]Output, error) {
		return s.hooks.OnCharacterAttacked(npc, attacker, defender)
	})...)

	if def.HP <= 0 {
		dieOuts, err := s.Die(defender, attacker)
		if err == nil {
			outs = append(outs, dieOuts...)
		}
	}
	return outs, nil
}

// stunMessage returns the wait text when the character's current
// action still blocks a new attack, or "" when free.
func (s *Service) stunMessage(ch *world.Character) string {
	remaining := ch.Action.Remaining(s.now())
	if remaining <= 0 {
		return ""
	}
	secs := int(math.Ceil(remaining.Seconds()))
	return fmt.Sprintf("Please wait %d seconds.", secs)
}

// ResetAction reverts the character to Idle when its timed action
// expires. A stale generation means the action was superseded and the
// reset is dropped. An NPC coming off cooldown gets its OnActive hook.
func (s *Service) ResetAction(ev ResetAction) ([]Output, error) {
	ch := s.realm.Character(ev.Character)
	if ch == nil || ch.Action.Seq != ev.Seq {
		return nil, nil
	}
	ch.SetAction(world.CharacterAction{Kind: world.ActionIdle})
	s.realm.MarkDirty(ev.Character)

	if s.hooks != nil && !ch.IsPlayer() && ch.Behavior != "" {
		return s.hooks.OnActive(ev.Character)
	}
	return nil, nil
}
