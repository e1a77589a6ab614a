// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package handlers

import (
	"context"

	"github.com/embermud/embermud/internal/command"
)

// SayHandler speaks the rest of the line to the room.
func SayHandler(ctx context.Context, exec *command.Execution) error {
	outs, err := exec.Services.Actions.Say(exec.Player, exec.Args)
	if err != nil {
		return err
	}
	deliver(ctx, exec, "say", outs)
	return nil
}

// ShoutHandler shouts the rest of the line across nearby rooms.
func ShoutHandler(ctx context.Context, exec *command.Execution) error {
	outs, err := exec.Services.Actions.Shout(exec.Player, exec.Args)
	if err != nil {
		return err
	}
	deliver(ctx, exec, "shout", outs)
	return nil
}

// FollowHandler joins another character's group, or leaves the
// current one when called without a target.
func FollowHandler(ctx context.Context, exec *command.Execution) error {
	if exec.Args == "" {
		return UnfollowHandler(ctx, exec)
	}
	target, err := command.ResolveObject(exec.Args, characterCandidates(exec), "They are not here.")
	if err != nil {
		return err
	}
	outs, err := exec.Services.Actions.Follow(exec.Player, target)
	if err != nil {
		return err
	}
	deliver(ctx, exec, "follow", outs)
	return nil
}

// UnfollowHandler leaves the current group.
func UnfollowHandler(ctx context.Context, exec *command.Execution) error {
	outs, err := exec.Services.Actions.Unfollow(exec.Player)
	if err != nil {
		return err
	}
	deliver(ctx, exec, "unfollow", outs)
	return nil
}

// DisbandHandler dissolves the group the player leads.
func DisbandHandler(ctx context.Context, exec *command.Execution) error {
	outs, err := exec.Services.Actions.Disband(exec.Player)
	if err != nil {
		return err
	}
	deliver(ctx, exec, "disband", outs)
	return nil
}

// LoseHandler removes a follower from the group the player leads.
func LoseHandler(ctx context.Context, exec *command.Execution) error {
	if exec.Args == "" {
		return command.ErrInvalidArgs("lose", "lose <follower>")
	}
	target, err := command.ResolveObject(exec.Args, characterCandidates(exec), "They are not here.")
	if err != nil {
		return err
	}
	outs, err := exec.Services.Actions.Lose(exec.Player, target)
	if err != nil {
		return err
	}
	deliver(ctx, exec, "lose", outs)
	return nil
}
