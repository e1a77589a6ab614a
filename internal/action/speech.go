// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import (
	"fmt"
	"sort"
	"strings"

	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/world"
)

// Speech strengths. Shouts carry much further than talk.
const (
	sayStrength   = 1.0
	shoutStrength = 5.0
)

// Say speaks at conversational volume.
func (s *Service) Say(actor world.Ref, message string) ([]Output, error) {
	return s.speak(actor, message, "says", sayStrength, false)
}

// Shout speaks loudly enough to carry across rooms.
func (s *Service) Shout(actor world.Ref, message string) ([]Output, error) {
	return s.speak(actor, message, "shouts", shoutStrength, true)
}

func (s *Service) speak(actor world.Ref, message, verb string, strength float64, shouted bool) ([]Output, error) {
	message, mark := splitTerminalMark(message)
	if message == "" {
		return nil, Reject("Say what?")
	}
	ch := s.realm.Character(actor)
	if ch == nil {
		return nil, Reject("You are nowhere.")
	}
	room := s.realm.Room(ch.Room)
	if room == nil {
		return nil, Reject("You are nowhere.")
	}

	var outs []Output
	if ch.IsPlayer() {
		verbYou := "say"
		if shouted {
			verbYou = "shout"
		}
		outs = append(outs, Output{Player: actor, Text: fmt.Sprintf("You %s, \"%s%s\"", verbYou, message, mark)})
	}

	ev := perception.Event{
		Kind:     world.EventSpeech,
		Origin:   room.ID,
		Excluded: world.NewRefSet(actor),
		Describe: s.perception.SpeechDescriber(ch.Name, verb, message, mark, shouted),
	}
	res := s.perception.PropagateAudible(ev, strength)
	outs = append(outs, outputsFromResult(res)...)

	// NPCs that heard the speech may react to it.
	if s.hooks != nil {
		listeners := make([]world.Ref, 0, len(res.Perceived))
		for npc := range res.Perceived {
			listeners = append(listeners, npc)
		}
		sort.Slice(listeners, func(i, j int) bool { return listeners[i].Less(listeners[j]) })
		for _, npc := range listeners {
			n := s.realm.Character(npc)
			if n == nil || n.IsPlayer() || n.Behavior == "" {
				continue
			}
			if hookOuts, err := s.hooks.OnTalk(npc, actor, message); err == nil {
				outs = append(outs, hookOuts...)
			}
		}
	}
	return outs, nil
}

// splitTerminalMark strips terminal punctuation from a spoken message
// and returns the mark the rendered quote should close with. "!" and
// "?" survive; anything else normalizes to a single period.
func splitTerminalMark(message string) (string, string) {
	message = strings.TrimSpace(message)
	mark := "."
	if trimmed := strings.TrimRight(message, ".!?"); trimmed != message {
		switch message[len(message)-1] {
		case '!', '?':
			mark = string(message[len(message)-1])
		}
		message = strings.TrimSpace(trimmed)
	}
	return message, mark
}
