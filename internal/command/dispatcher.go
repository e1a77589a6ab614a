// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package command

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/embermud/embermud/internal/action"
)

var tracer = otel.Tracer("embermud/command")

// Dispatcher parses input, resolves the command, applies rate limits
// and admin checks, and runs the handler.
type Dispatcher struct {
	registry    *Registry
	services    *Services
	rateLimiter *RateLimiter // optional, can be nil
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithRateLimiter enables per-session rate limiting. Without it, no
// limit applies.
func WithRateLimiter(rl *RateLimiter) DispatcherOption {
	return func(d *Dispatcher) {
		d.rateLimiter = rl
	}
}

// NewDispatcher creates a dispatcher over the registry and services.
func NewDispatcher(registry *Registry, services *Services, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, oops.Errorf("dispatcher requires a registry")
	}
	if services == nil {
		return nil, oops.Errorf("dispatcher requires services")
	}
	d := &Dispatcher{registry: registry, services: services}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch parses and executes one line of input for the player
// behind exec. The returned error is mapped to player text with
// PlayerMessage by the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, input string, exec *Execution) (err error) {
	parsed, err := Parse(input)
	if err != nil {
		return err
	}
	parsed = rewriteCompass(parsed)

	ctx, span := tracer.Start(ctx, "command.execute",
		trace.WithAttributes(
			attribute.String("command.name", parsed.Name),
			attribute.String("player.id", exec.Player.String()),
		),
	)
	metrics := newMetricsRecorder()
	metrics.setCommand(parsed.Name)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.record()
	}()

	ch := d.services.Realm.Character(exec.Player)
	isAdmin := ch != nil && ch.Admin

	// Admins are exempt from rate limiting.
	if d.rateLimiter != nil && !isAdmin {
		allowed, cooldownMs := d.rateLimiter.Allow(exec.SessionID)
		if !allowed {
			span.SetAttributes(
				attribute.Bool("command.rate_limited", true),
				attribute.Int64("command.cooldown_ms", cooldownMs),
			)
			RateLimitedCommands.WithLabelValues(parsed.Name).Inc()
			metrics.setStatus(StatusRateLimited)
			err = ErrRateLimited(cooldownMs)
			return err
		}
	}

	entry, err := d.registry.Resolve(parsed.Name)
	if err != nil {
		metrics.setStatus(StatusNotFound)
		return err
	}
	metrics.setCommand(entry.Name)
	span.SetAttributes(attribute.String("command.resolved", entry.Name))

	if entry.Admin && !isAdmin {
		metrics.setStatus(StatusPermissionDenied)
		err = ErrPermissionDenied(entry.Name)
		return err
	}

	exec.Name = entry.Name
	exec.Args = parsed.Args
	exec.Services = d.services
	err = entry.Handler(ctx, exec)
	if err != nil {
		if action.IsRejection(err) {
			metrics.setStatus(StatusRejected)
		} else {
			metrics.setStatus(StatusError)
			slog.WarnContext(ctx, "command execution failed",
				"command", entry.Name,
				"player", exec.Player.String(),
				"error", err,
			)
		}
	}
	return err
}
