// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import (
	"fmt"
	"strings"

	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/world"
)

// Look renders the actor's current room.
func (s *Service) Look(actor world.Ref) ([]Output, error) {
	ch := s.realm.Character(actor)
	if ch == nil {
		return nil, Reject("You are nowhere.")
	}
	room := s.realm.Room(ch.Room)
	if room == nil {
		return nil, Reject("You are nowhere.")
	}
	if !ch.IsPlayer() {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString(room.Name)
	if room.Description != "" {
		b.WriteString("\n")
		b.WriteString(room.Description)
	}

	if exits := s.exitNames(room); len(exits) > 0 {
		b.WriteString("\nObvious exits: ")
		b.WriteString(strings.Join(exits, ", "))
		b.WriteString(".")
	}

	for _, iref := range room.Items {
		if item := s.realm.Item(iref); item != nil {
			fmt.Fprintf(&b, "\nThere is %s here.", withArticle(item.Name))
		}
	}
	for _, cref := range room.Characters {
		if cref == actor {
			continue
		}
		if other := s.realm.Character(cref); other != nil {
			fmt.Fprintf(&b, "\n%s is here.", other.Name)
		}
	}

	return []Output{{Player: actor, Text: b.String()}}, nil
}

// exitNames lists the room's portal names as seen from inside it. A
// room with dynamic portal descriptions names them by direction.
func (s *Service) exitNames(room *world.Room) []string {
	var names []string
	for _, pref := range room.Portals {
		portal := s.realm.Portal(pref)
		if portal == nil {
			continue
		}
		name := portal.NameFrom(room.ID)
		if room.Flags.Has(world.RoomDynamicPortals) {
			if opp, ok := portal.OppositeOf(room.ID); ok {
				if other := s.realm.Room(opp); other != nil {
					dir := other.Position.Sub(room.Position)
					name = fmt.Sprintf("%s (%s)", name, perception.CompassName(dir))
				}
			}
		}
		names = append(names, name)
	}
	return names
}

func withArticle(noun string) string {
	if noun == "" {
		return noun
	}
	switch noun[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an " + noun
	default:
		return "a " + noun
	}
}
