// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package handlers

import (
	"context"

	"github.com/embermud/embermud/internal/action"
	"github.com/embermud/embermud/internal/command"
	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/world"
)

// portalCandidates names the exits of the player's room, both by the
// portal's own name and by compass direction, so "go gate" and
// "go north" reach the same place.
func portalCandidates(exec *command.Execution) []command.Candidate {
	realm := exec.Services.Realm
	ch := realm.Character(exec.Player)
	if ch == nil {
		return nil
	}
	room := realm.Room(ch.Room)
	if room == nil {
		return nil
	}

	var candidates []command.Candidate
	for _, pref := range room.Portals {
		portal := realm.Portal(pref)
		if portal == nil {
			continue
		}
		candidates = append(candidates, command.Candidate{Ref: pref, Name: portal.NameFrom(room.ID)})
		if opp, ok := portal.OppositeOf(room.ID); ok {
			if other := realm.Room(opp); other != nil {
				dir := other.Position.Sub(room.Position)
				candidates = append(candidates, command.Candidate{Ref: pref, Name: perception.CompassName(dir)})
			}
		}
	}
	return candidates
}

// characterCandidates names everyone in the player's room.
func characterCandidates(exec *command.Execution) []command.Candidate {
	realm := exec.Services.Realm
	ch := realm.Character(exec.Player)
	if ch == nil {
		return nil
	}
	room := realm.Room(ch.Room)
	if room == nil {
		return nil
	}

	var candidates []command.Candidate
	for _, cref := range room.Characters {
		if other := realm.Character(cref); other != nil {
			candidates = append(candidates, command.Candidate{Ref: cref, Name: other.Name})
		}
	}
	return candidates
}

// GoHandler moves the player through a named exit.
func GoHandler(ctx context.Context, exec *command.Execution) error {
	if exec.Args == "" {
		return command.ErrInvalidArgs("go", "go <exit>")
	}
	portal, err := command.ResolveObject(exec.Args, portalCandidates(exec), "You cannot go that way.")
	if err != nil {
		return err
	}
	outs, err := exec.Services.Actions.Move(exec.Player, portal)
	if err != nil {
		return err
	}
	deliver(ctx, exec, "go", outs)
	return nil
}

// LookHandler renders the player's room.
func LookHandler(ctx context.Context, exec *command.Execution) error {
	outs, err := exec.Services.Actions.Look(exec.Player)
	if err != nil {
		return err
	}
	deliver(ctx, exec, "look", outs)
	return nil
}

// OpenHandler opens a named portal.
func OpenHandler(ctx context.Context, exec *command.Execution) error {
	return operate(ctx, exec, "open", exec.Services.Actions.Open)
}

// CloseHandler closes a named portal.
func CloseHandler(ctx context.Context, exec *command.Execution) error {
	return operate(ctx, exec, "close", exec.Services.Actions.Close)
}

func operate(ctx context.Context, exec *command.Execution, verb string, act func(actor, portal world.Ref) ([]action.Output, error)) error {
	if exec.Args == "" {
		return command.ErrInvalidArgs(verb, verb+" <portal>")
	}
	portal, err := command.ResolveObject(exec.Args, portalCandidates(exec), "You don't see that here.")
	if err != nil {
		return err
	}
	outs, err := act(exec.Player, portal)
	if err != nil {
		return err
	}
	deliver(ctx, exec, verb, outs)
	return nil
}

// KillHandler attacks a character in the room.
func KillHandler(ctx context.Context, exec *command.Execution) error {
	if exec.Args == "" {
		return command.ErrInvalidArgs("kill", "kill <target>")
	}
	target, err := command.ResolveObject(exec.Args, characterCandidates(exec), "They are not here.")
	if err != nil {
		return err
	}
	outs, err := exec.Services.Actions.Kill(exec.Player, target)
	if err != nil {
		return err
	}
	deliver(ctx, exec, "kill", outs)
	return nil
}
