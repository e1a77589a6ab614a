// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package errutil

import (
	"log/slog"
	"sort"

	"github.com/samber/oops"
)

// LogError logs an error with structured context if it's an oops error.
// For oops errors, it extracts the message and code and promotes each
// context entry (ref, session, command, ...) to a top-level attribute,
// in key order so log lines stay stable. For standard errors, it logs
// the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		ctx := oopsErr.Context()
		keys := make([]string, 0, len(ctx))
		for k := range ctx {
			// error and code are already taken.
			if k != "error" && k != "code" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, k, ctx[k])
		}
		logger.Error(msg, attrs...)
	} else {
		logger.Error(msg, "error", err)
	}
}
