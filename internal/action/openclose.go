// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import (
	"fmt"

	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/world"
)

// Open opens a portal from the actor's side. Opening arms the portal's
// auto-close timer when one is configured.
func (s *Service) Open(actor, portalRef world.Ref) ([]Output, error) {
	ch, portal, err := s.operablePortal(actor, portalRef, "opened")
	if err != nil {
		return nil, err
	}
	if portal.Open {
		return nil, Reject("It is already open.")
	}
	if key := portal.Openable.Key; !key.IsZero() && !s.holdsItem(ch, key) {
		return nil, Reject("It is locked.")
	}

	portal.Open = true
	s.realm.MarkDirty(portalRef)

	outs := s.portalNotice(ch, portal, "opens")
	if timeout := portal.Openable.AutoCloseTimeout; timeout > 0 {
		// Re-opening replaces any timer still pending.
		if h, ok := s.autoClose[portalRef]; ok {
			h.Cancel()
		}
		s.autoClose[portalRef] = s.scheduler.DispatchCancelableAfter(AutoClose{Portal: portalRef}, timeout)
	}
	return outs, nil
}

// Close closes a portal from the actor's side, disarming any pending
// auto-close.
func (s *Service) Close(actor, portalRef world.Ref) ([]Output, error) {
	ch, portal, err := s.operablePortal(actor, portalRef, "closed")
	if err != nil {
		return nil, err
	}
	if !portal.Open {
		return nil, Reject("It is already closed.")
	}

	portal.Open = false
	s.realm.MarkDirty(portalRef)
	if h, ok := s.autoClose[portalRef]; ok {
		h.Cancel()
		delete(s.autoClose, portalRef)
	}
	return s.portalNotice(ch, portal, "closes"), nil
}

// CloseAuto closes a portal whose auto-close timer fired, telling
// players on both permitted sides.
func (s *Service) CloseAuto(ev AutoClose) ([]Output, error) {
	delete(s.autoClose, ev.Portal)

	portal := s.realm.Portal(ev.Portal)
	if portal == nil || !portal.Open || portal.Openable == nil {
		return nil, nil
	}
	portal.Open = false
	s.realm.MarkDirty(ev.Portal)

	message := portal.Openable.AutoCloseMessage
	if message == "" {
		message = fmt.Sprintf("The %s swings shut.", portal.Name)
	}

	var outs []Output
	seen := world.NewRefSet()
	for _, rref := range []world.Ref{portal.Room, portal.Room2} {
		room := s.realm.Room(rref)
		if room == nil {
			continue
		}
		for _, o := range s.roomBroadcast(room, message, seen) {
			outs = append(outs, o)
			seen.Add(o.Player)
		}
	}
	return outs, nil
}

// operablePortal validates that the portal exists next to the actor
// and can actually be operated from that side.
func (s *Service) operablePortal(actor, portalRef world.Ref, verb string) (*world.Character, *world.Portal, error) {
	ch := s.realm.Character(actor)
	if ch == nil {
		return nil, nil, Reject("You are nowhere.")
	}
	portal := s.realm.Portal(portalRef)
	if portal == nil || !portal.Connects(ch.Room) {
		return nil, nil, Reject("That portal doesn't exist.")
	}
	if portal.Openable == nil || !portal.CanOpenFrom(ch.Room) {
		return nil, nil, Rejectf("Exit cannot be %s.", verb)
	}
	return ch, portal, nil
}

func (s *Service) holdsItem(ch *world.Character, item world.Ref) bool {
	for _, iref := range ch.Inventory {
		if iref == item {
			return true
		}
	}
	return false
}

// portalNotice tells the actor and the room about an open or close.
func (s *Service) portalNotice(ch *world.Character, portal *world.Portal, verb string) []Output {
	name := portal.NameFrom(ch.Room)
	var outs []Output
	if ch.IsPlayer() {
		outs = append(outs, Output{Player: ch.ID, Text: fmt.Sprintf("You %s the %s.", verbBase(verb), name)})
	}
	ev := perception.Event{
		Kind:     world.EventPortal,
		Origin:   ch.Room,
		Excluded: world.NewRefSet(ch.ID),
		Describe: perception.VisualDescriber(
			fmt.Sprintf("%s %s the %s.", ch.Name, verb, name),
			fmt.Sprintf("Someone %s a %s.", verb, name),
			"",
		),
	}
	return append(outs, outputsFromResult(s.perception.PropagateVisual(ev, 1.0))...)
}

func verbBase(verb string) string {
	if verb == "opens" {
		return "open"
	}
	return "close"
}
