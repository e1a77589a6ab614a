// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package handlers implements the core command set on top of the
// action layer.
package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/embermud/embermud/internal/action"
	"github.com/embermud/embermud/internal/command"
	"github.com/embermud/embermud/internal/observability"
)

// logOutputError logs a write failure with structured context and
// bumps the output failure metric. Output failures never fail the
// command; the world mutation already happened.
func logOutputError(ctx context.Context, cmd string, exec *command.Execution, bytesWritten int, err error) {
	slog.WarnContext(ctx, "failed to write command output",
		"command", cmd,
		"player", exec.Player.String(),
		"bytes_written", bytesWritten,
		"error", err,
	)
	observability.RecordCommandOutputFailure(cmd)
}

// writeOutput writes one line to the issuing player.
func writeOutput(ctx context.Context, exec *command.Execution, cmd, msg string) {
	if n, err := fmt.Fprintln(exec.Output, msg); err != nil {
		logOutputError(ctx, cmd, exec, n, err)
	}
}

// writeOutputf writes one formatted line to the issuing player.
func writeOutputf(ctx context.Context, exec *command.Execution, cmd, format string, args ...any) {
	if n, err := fmt.Fprintf(exec.Output, format+"\n", args...); err != nil {
		logOutputError(ctx, cmd, exec, n, err)
	}
}

// deliver routes action outputs: lines for the issuing player go to
// the session's writer, lines for everyone else go through the
// session service.
func deliver(ctx context.Context, exec *command.Execution, cmd string, outs []action.Output) {
	for _, o := range outs {
		if o.Player == exec.Player {
			writeOutput(ctx, exec, cmd, o.Text)
			continue
		}
		if exec.Services.Sessions != nil {
			exec.Services.Sessions.Send(o.Player, o.Text)
		}
	}
}
