// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import (
	"fmt"

	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/world"
)

// combatPhrase is one fully assembled narration, phrased three ways so
// each observer reads the right person: the attacker in second person,
// the defender addressed as "you", and everyone else by name.
//
// byAttacker takes the defender's name; byDefender the attacker's;
// byOther takes attacker then defender.
type combatPhrase struct {
	byAttacker string
	byDefender string
	byOther    string
}

// Unarmed combat openings. Weapon categories would gate further pools
// here; only fists exist so far.
var unarmedHitBeginnings = []combatPhrase{
	{"You punch %s", "%s punches you", "%s punches %s"},
	{"You strike %s", "%s strikes you", "%s strikes %s"},
	{"You slam your fist into %s", "%s slams a fist into you", "%s slams a fist into %s"},
}

var unarmedMissBeginnings = []combatPhrase{
	{"You swing at %s", "%s swings at you", "%s swings at %s"},
	{"You lunge at %s", "%s lunges at you", "%s lunges at %s"},
}

var hitEndings = []string{
	", drawing blood.",
	" with a dull thud.",
	", landing a solid blow.",
}

// Endings for heavyweight targets that barely notice the hit.
var hitEndingsHeavy = []string{
	", barely staggering it.",
	"; it hardly seems to notice.",
}

var missEndings = []string{
	" and misses.",
	", but hits nothing.",
	"; the blow goes wide.",
}

// heavyTargetWeight gates the condescending hit endings.
const heavyTargetWeight = 500

// pickCombatPhrase assembles a random beginning and ending for one
// swing, gated by hit or miss and by the target's bulk.
func (s *Service) pickCombatPhrase(def *world.Character, hit bool) combatPhrase {
	var begin combatPhrase
	var end string
	if hit {
		begin = unarmedHitBeginnings[s.rng.Intn(len(unarmedHitBeginnings))]
		pool := hitEndings
		if def.Weight >= heavyTargetWeight {
			pool = hitEndingsHeavy
		}
		end = pool[s.rng.Intn(len(pool))]
	} else {
		begin = unarmedMissBeginnings[s.rng.Intn(len(unarmedMissBeginnings))]
		end = missEndings[s.rng.Intn(len(missEndings))]
	}
	return combatPhrase{
		byAttacker: begin.byAttacker + end,
		byDefender: begin.byDefender + end,
		byOther:    begin.byOther + end,
	}
}

// combatDescriber personalizes a combat phrase per observer. Distant
// witnesses only see that a fight is happening.
func combatDescriber(phrase combatPhrase, atk, def *world.Character) perception.Describe {
	return func(strength float64, observer *world.Character, _ *world.Room) (string, bool) {
		if strength > perception.FullTier {
			switch {
			case observer != nil && observer.ID == atk.ID:
				return fmt.Sprintf(phrase.byAttacker, def.Name), true
			case observer != nil && observer.ID == def.ID:
				return fmt.Sprintf(phrase.byDefender, atk.Name), true
			default:
				return fmt.Sprintf(phrase.byOther, atk.Name, def.Name), true
			}
		}
		if strength > perception.DistantTier {
			return fmt.Sprintf("%s is fighting %s.", atk.Name, def.Name), true
		}
		return "You see a fight in the distance.", true
	}
}
