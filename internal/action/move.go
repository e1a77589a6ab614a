// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import (
	"fmt"

	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/world"
)

// audible strength decay per additional party member, floored.
const (
	followerDecay    = 0.2
	followerDecayMin = 0.3
)

// Move takes the actor, and any followers traveling with it, through
// the portal. Witnesses along the departure path, in the destination,
// and beyond are notified visually, then audibly for whoever saw
// nothing.
func (s *Service) Move(actor, portalRef world.Ref) ([]Output, error) {
	ch := s.realm.Character(actor)
	if ch == nil {
		return nil, Reject("You are nowhere.")
	}
	from := s.realm.Room(ch.Room)
	portal := s.realm.Portal(portalRef)
	if from == nil || portal == nil || !portal.Connects(from.ID) {
		return nil, Reject("That portal doesn't exist.")
	}
	if !portal.CanPassThrough() {
		if portal.Openable != nil && !portal.Open {
			return nil, Reject("The door is closed.")
		}
		return nil, Reject("You cannot go that way.")
	}
	destRef, _ := portal.OppositeOf(from.ID)
	dest := s.realm.Room(destRef)
	if dest == nil {
		return nil, Reject("That portal doesn't lead anywhere.")
	}

	party := s.travelingParty(ch, from)
	dir := dest.Position.Sub(from.Position).Normalize()

	for _, mref := range party {
		m := s.realm.Character(mref)
		if m == nil {
			continue
		}
		m.Room = dest.ID
		m.Direction = dir
		from.RemoveCharacter(mref)
		dest.AddCharacter(mref)
		s.realm.MarkDirty(mref)
	}
	s.realm.MarkDirty(from.ID)
	s.realm.MarkDirty(dest.ID)

	excluded := world.NewRefSet(party...)
	partyName := s.partyName(ch, len(party))

	visual := perception.Event{
		Kind:        world.EventMovement,
		Origin:      from.ID,
		Destination: dest.ID,
		Excluded:    excluded,
		Describe:    s.perception.MovementDescriber(partyName, from.ID, dest.ID, portal.NameFrom(from.ID), dir),
	}
	vres := s.perception.PropagateVisual(visual, 1.0)
	outs := outputsFromResult(vres)

	// Sound follows, one burst per traveler, each quieter than the
	// last. Whoever already saw the move is excluded so nobody is
	// notified twice.
	heard := world.NewRefSet(party...)
	for p := range vres.Perceived {
		heard.Add(p)
	}
	for i := range party {
		strength := 1.0 - followerDecay*float64(i)
		if strength < followerDecayMin {
			strength = followerDecayMin
		}
		audible := perception.Event{
			Kind:        world.EventMovement,
			Origin:      from.ID,
			Destination: dest.ID,
			Excluded:    heard,
			Describe:    footstepDescriber(),
		}
		ares := s.perception.PropagateAudible(audible, strength)
		outs = append(outs, outputsFromResult(ares)...)
		for p := range ares.Perceived {
			heard.Add(p)
		}
	}

	// Personal lines: followers learn who they trailed, everyone gets
	// the new room.
	for _, mref := range party {
		m := s.realm.Character(mref)
		if m == nil || !m.IsPlayer() {
			continue
		}
		if mref != actor {
			outs = append(outs, Output{Player: mref, Text: fmt.Sprintf("You follow %s.", ch.Name)})
		}
		if look, err := s.Look(mref); err == nil {
			outs = append(outs, look...)
		}
	}

	// NPCs already in the destination notice the arrival.
	outs = append(outs, s.notifyActors(dest, excluded, func(npc world.Ref) ([]Output, error) {
		return s.hooks.OnCharacterEntered(npc, actor)
	})...)

	return outs, nil
}

// travelingParty returns the actor plus any of its followers that are
// co-located and free to follow, actor first.
func (s *Service) travelingParty(ch *world.Character, room *world.Room) []world.Ref {
	party := []world.Ref{ch.ID}
	group := s.realm.Group(ch.Group)
	if group == nil || group.Leader != ch.ID {
		return party
	}
	for _, fref := range group.Followers {
		f := s.realm.Character(fref)
		if f == nil || f.Room != room.ID || !f.Action.CanFollowOthers() {
			continue
		}
		party = append(party, fref)
	}
	return party
}

func (s *Service) partyName(leader *world.Character, size int) string {
	if size <= 1 {
		return leader.Name
	}
	return fmt.Sprintf("%s and %s group", leader.Name, leader.Gender.Possessive())
}

func footstepDescriber() perception.Describe {
	return func(strength float64, _ *world.Character, _ *world.Room) (string, bool) {
		if strength > perception.DistantTier {
			return "You hear someone passing by.", true
		}
		return "You hear faint footsteps.", true
	}
}
