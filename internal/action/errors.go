// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package action

import (
	"github.com/samber/oops"
)

// CodeRejected marks a user-facing rule violation. The message is
// shown to the initiating player and nothing is logged.
const CodeRejected = "REJECTED"

// Reject builds a user-facing rejection with the exact text the
// player should read.
func Reject(message string) error {
	return oops.Code(CodeRejected).With("message", message).Errorf("%s", message)
}

// Rejectf builds a formatted user-facing rejection.
func Rejectf(format string, args ...any) error {
	return oops.Code(CodeRejected).Errorf(format, args...)
}

// IsRejection reports whether err is a user-facing rule violation as
// opposed to an internal failure.
func IsRejection(err error) bool {
	o, ok := oops.AsOops(err)
	return ok && o.Code() == CodeRejected
}

// PlayerMessage extracts the text to show the initiating player.
func PlayerMessage(err error) string {
	if err == nil {
		return ""
	}
	if o, ok := oops.AsOops(err); ok && o.Code() == CodeRejected {
		return o.Error()
	}
	return "Something went wrong."
}
