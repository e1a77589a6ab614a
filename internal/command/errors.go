// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package command

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/embermud/embermud/internal/action"
)

// Error codes for command dispatch failures.
const (
	CodeUnknownCommand   = "UNKNOWN_COMMAND"
	CodeAmbiguousCommand = "AMBIGUOUS_COMMAND"
	CodeInvalidArgs      = "INVALID_ARGS"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeTargetNotFound   = "TARGET_NOT_FOUND"
)

// ErrUnknownCommand creates an error for a name matching no command.
func ErrUnknownCommand(cmd string) error {
	return oops.Code(CodeUnknownCommand).
		With("command", cmd).
		Errorf("unknown command: %s", cmd)
}

// ErrAmbiguousCommand creates an error for a prefix matching several
// commands.
func ErrAmbiguousCommand(cmd string) error {
	return oops.Code(CodeAmbiguousCommand).
		With("command", cmd).
		Errorf("ambiguous command: %s", cmd)
}

// ErrInvalidArgs creates an error for invalid arguments.
func ErrInvalidArgs(cmd, usage string) error {
	return oops.Code(CodeInvalidArgs).
		With("command", cmd).
		With("usage", usage).
		Errorf("invalid arguments")
}

// ErrPermissionDenied creates an error for an admin command issued by
// a regular player.
func ErrPermissionDenied(cmd string) error {
	return oops.Code(CodePermissionDenied).
		With("command", cmd).
		Errorf("permission denied for command %s", cmd)
}

// ErrRateLimited creates an error for rate limiting.
func ErrRateLimited(cooldownMs int64) error {
	return oops.Code(CodeRateLimited).
		With("cooldown_ms", cooldownMs).
		Errorf("command rate limit exceeded")
}

// ErrTargetNotFound creates an error for an object phrase matching
// nothing nearby. message is the exact text shown to the player.
func ErrTargetNotFound(message string) error {
	return oops.Code(CodeTargetNotFound).
		With("message", message).
		Errorf("%s", message)
}

// PlayerMessage maps an error from dispatch or a handler to the text
// the issuing player should read.
func PlayerMessage(err error) string {
	if err == nil {
		return ""
	}
	if action.IsRejection(err) {
		return action.PlayerMessage(err)
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "Something went wrong. Try again."
	}
	ctx := oopsErr.Context()
	switch oopsErr.Code() {
	case CodeUnknownCommand:
		if cmd, ok := ctx["command"].(string); ok {
			return fmt.Sprintf("Command %q does not exist.", cmd)
		}
		return "Command does not exist."
	case CodeAmbiguousCommand:
		return "Command is not unique."
	case CodeInvalidArgs:
		if usage, ok := ctx["usage"].(string); ok && usage != "" {
			return "Usage: " + usage
		}
		return "Invalid arguments."
	case CodePermissionDenied:
		return "You don't have permission to do that."
	case CodeRateLimited:
		return "Too many commands. Please slow down."
	case CodeTargetNotFound:
		if msg, ok := ctx["message"].(string); ok {
			return msg
		}
		return "You don't see that here."
	default:
		return "Something went wrong. Try again."
	}
}
