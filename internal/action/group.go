// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import (
	"fmt"

	"github.com/embermud/embermud/internal/world"
)

// Follow makes the actor trail the leader. An actor already following
// someone is transparently unfollowed first; the first follower brings
// the group into existence.
func (s *Service) Follow(actor, leaderRef world.Ref) ([]Output, error) {
	if actor == leaderRef {
		return nil, Reject("You cannot follow yourself.")
	}
	ch := s.realm.Character(actor)
	leader := s.realm.Character(leaderRef)
	if ch == nil || leader == nil || leader.Room != ch.Room {
		return nil, Reject("They are not here.")
	}
	if !ch.Action.CanFollowOthers() {
		return nil, Reject("You are too busy to follow anyone.")
	}

	// Following a follower means following their leader.
	if g := s.realm.Group(leader.Group); g != nil && g.Leader != leaderRef {
		return s.Follow(actor, g.Leader)
	}

	var outs []Output
	if s.realm.Group(ch.Group) != nil {
		outs = append(outs, s.leaveGroup(ch)...)
	}

	group := s.realm.Group(leader.Group)
	if group == nil {
		group = &world.Group{ID: s.realm.NextRef(world.TypeGroup), Leader: leaderRef}
		s.realm.Add(group)
		leader.Group = group.ID
		s.realm.MarkDirty(leaderRef)
	}
	group.AddFollower(actor)
	ch.Group = group.ID
	s.realm.MarkDirty(group.ID)
	s.realm.MarkDirty(actor)

	outs = append(outs, Output{Player: actor, Text: fmt.Sprintf("You start following %s.", leader.Name)})
	if leader.IsPlayer() {
		outs = append(outs, Output{Player: leaderRef, Text: fmt.Sprintf("%s starts following you.", ch.Name)})
	}
	return outs, nil
}

// Unfollow detaches the actor from its group.
func (s *Service) Unfollow(actor world.Ref) ([]Output, error) {
	ch := s.realm.Character(actor)
	if ch == nil {
		return nil, Reject("You are nowhere.")
	}
	group := s.realm.Group(ch.Group)
	if group == nil || group.Leader == actor {
		return nil, Reject("You are not following anyone.")
	}
	outs := s.leaveGroup(ch)
	return outs, nil
}

// Disband dissolves the actor's group. Leader only.
func (s *Service) Disband(actor world.Ref) ([]Output, error) {
	ch := s.realm.Character(actor)
	if ch == nil {
		return nil, Reject("You are nowhere.")
	}
	group := s.realm.Group(ch.Group)
	if group == nil {
		return nil, Reject("You are not in a group.")
	}
	if group.Leader != actor {
		return nil, Reject("Only the group leader can disband the group.")
	}

	outs := []Output{{Player: actor, Text: "You disband the group."}}
	for _, fref := range group.Followers {
		f := s.realm.Character(fref)
		if f == nil {
			continue
		}
		f.Group = world.Ref{}
		s.realm.MarkDirty(fref)
		if f.IsPlayer() {
			outs = append(outs, Output{Player: fref, Text: fmt.Sprintf("%s disbands the group.", ch.Name)})
		}
	}
	ch.Group = world.Ref{}
	s.realm.MarkDirty(actor)
	s.realm.Remove(group.ID)
	return outs, nil
}

// Lose expels one follower. Leader only.
func (s *Service) Lose(actor, targetRef world.Ref) ([]Output, error) {
	ch := s.realm.Character(actor)
	if ch == nil {
		return nil, Reject("You are nowhere.")
	}
	group := s.realm.Group(ch.Group)
	if group == nil || group.Leader != actor {
		return nil, Reject("Only the group leader can do that.")
	}
	target := s.realm.Character(targetRef)
	if target == nil || target.Group != group.ID {
		return nil, Reject("They are not in your group.")
	}

	outs := s.leaveGroup(target)
	outs = append(outs, Output{Player: actor, Text: fmt.Sprintf("You lose %s from the group.", target.Name)})
	return outs, nil
}

// leaveGroup removes the character from its group, dissolving the
// group when it would be left empty or leaderless. Safe to call for
// characters without a group.
func (s *Service) leaveGroup(ch *world.Character) []Output {
	group := s.realm.Group(ch.Group)
	if group == nil {
		ch.Group = world.Ref{}
		return nil
	}

	var outs []Output
	if group.Leader == ch.ID {
		// The leader leaving dissolves the whole group.
		for _, fref := range group.Followers {
			f := s.realm.Character(fref)
			if f == nil {
				continue
			}
			f.Group = world.Ref{}
			s.realm.MarkDirty(fref)
			if f.IsPlayer() {
				outs = append(outs, Output{Player: fref, Text: fmt.Sprintf("%s's group dissolves.", ch.Name)})
			}
		}
		s.realm.Remove(group.ID)
	} else {
		group.RemoveFollower(ch.ID)
		s.realm.MarkDirty(group.ID)
		if ch.IsPlayer() {
			outs = append(outs, Output{Player: ch.ID, Text: "You stop following."})
		}
		if leader := s.realm.Character(group.Leader); leader != nil && leader.IsPlayer() {
			outs = append(outs, Output{Player: group.Leader, Text: fmt.Sprintf("%s stops following you.", ch.Name)})
		}
		// The last follower leaving disbands the group.
		if len(group.Followers) == 0 {
			if leader := s.realm.Character(group.Leader); leader != nil {
				leader.Group = world.Ref{}
				s.realm.MarkDirty(group.Leader)
			}
			s.realm.Remove(group.ID)
		}
	}

	ch.Group = world.Ref{}
	s.realm.MarkDirty(ch.ID)
	return outs
}
