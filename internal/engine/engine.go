// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package engine runs the single world goroutine. Session input and
// scheduled events funnel through one channel and execute to
// completion in arrival order, so nothing else ever mutates the realm.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/embermud/embermud/internal/action"
	"github.com/embermud/embermud/internal/actor"
	"github.com/embermud/embermud/internal/command"
	"github.com/embermud/embermud/internal/observability"
	"github.com/embermud/embermud/internal/persist"
	"github.com/embermud/embermud/internal/world"
	"github.com/embermud/embermud/pkg/errutil"
)

// defaultQueueSize bounds the event channel. Producers block once the
// world goroutine falls this far behind.
const defaultQueueSize = 256

// Input is one line of player input from a session.
type Input struct {
	Session *Session
	Line    string
}

// bootActors triggers every NPC's OnSpawn hook. Enqueued once by
// Start so spawning runs on the world goroutine.
type bootActors struct{}

// loginQuery resolves a player's credentials on the world goroutine,
// so transports never read the realm directly.
type loginQuery struct {
	name  string
	reply chan loginReply
}

type loginReply struct {
	player world.Ref
	hash   string
	found  bool
}

// Engine owns the realm and executes world events one at a time.
type Engine struct {
	realm      *world.Realm
	dispatcher *command.Dispatcher
	actions    *action.Service
	hooks      *actor.Hooks
	sessions   *SessionManager
	store      persist.Store         // optional, nil runs ephemeral
	metrics    *observability.Metrics // optional

	events chan any
	stop   chan struct{}
	done   chan struct{}

	stopOnce sync.Once
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithStore persists each event's dirty entities to store.
func WithStore(store persist.Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithMetrics publishes queue depth, event, session, and entity
// gauges.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithQueueSize overrides the event channel capacity.
func WithQueueSize(n int) Option {
	return func(e *Engine) { e.events = make(chan any, n) }
}

// New creates an engine. The scheduler's sink must be wired to
// Enqueue so timers deliver back into this loop.
func New(realm *world.Realm, dispatcher *command.Dispatcher, actions *action.Service, hooks *actor.Hooks, sessions *SessionManager, opts ...Option) (*Engine, error) {
	if realm == nil || dispatcher == nil || actions == nil || sessions == nil {
		return nil, oops.Errorf("engine requires realm, dispatcher, actions, and sessions")
	}
	e := &Engine{
		realm:      realm,
		dispatcher: dispatcher,
		actions:    actions,
		hooks:      hooks,
		sessions:   sessions,
		events:     make(chan any, defaultQueueSize),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Sessions returns the engine's session manager.
func (e *Engine) Sessions() *SessionManager { return e.sessions }

// Enqueue delivers an event into the world queue. Safe from any
// goroutine; blocks while the queue is full, returns silently after
// Stop.
func (e *Engine) Enqueue(event any) {
	select {
	case e.events <- event:
	case <-e.stop:
	}
}

// Start launches the world goroutine and boots NPC behaviors.
func (e *Engine) Start(ctx context.Context) {
	go e.run(ctx)
	e.Enqueue(bootActors{})
}

// Stop ends the world goroutine after the in-flight event finishes.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
	<-e.done
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)
	for {
		select {
		case <-e.stop:
			return
		case <-ctx.Done():
			return
		case event := <-e.events:
			e.handle(ctx, event)
			e.flush(ctx)
		}
	}
}

// handle executes one event. A panic aborts the event, never the
// process: the realm stays live for the next event.
func (e *Engine) handle(ctx context.Context, event any) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "world event panicked",
				"event", fmt.Sprintf("%T", event),
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	kind := "input"
	switch ev := event.(type) {
	case Input:
		e.handleInput(ctx, ev)
	case action.ResetAction:
		kind = "reset_action"
		outs, err := e.actions.ResetAction(ev)
		e.deliverScheduled(ctx, kind, outs, err)
	case action.AutoClose:
		kind = "auto_close"
		outs, err := e.actions.CloseAuto(ev)
		e.deliverScheduled(ctx, kind, outs, err)
	case action.ActivateActor:
		kind = "activate_actor"
		if e.hooks != nil {
			outs, err := e.hooks.OnActive(ev.Actor)
			e.deliverScheduled(ctx, kind, outs, err)
		}
	case action.RespawnNPC:
		kind = "respawn"
		outs, err := e.actions.Respawn(ev)
		e.deliverScheduled(ctx, kind, outs, err)
	case loginQuery:
		kind = "login"
		e.handleLogin(ev)
	case bootActors:
		kind = "boot_actors"
		e.bootActors(ctx)
	default:
		kind = "unknown"
		slog.WarnContext(ctx, "dropping unknown world event", "event", fmt.Sprintf("%T", event))
	}

	if e.metrics != nil {
		e.metrics.EventsProcessed.WithLabelValues(kind).Inc()
	}
}

func (e *Engine) handleInput(ctx context.Context, in Input) {
	e.sessions.Touch(in.Session.Player)

	line := strings.TrimSpace(in.Line)
	if line != "" {
		exec := &command.Execution{
			Player:    in.Session.Player,
			SessionID: in.Session.ID,
			Output:    in.Session,
		}
		if err := e.dispatcher.Dispatch(ctx, line, exec); err != nil {
			in.Session.push(command.PlayerMessage(err) + "\n")
		}
	}
	in.Session.push(e.Prompt(in.Session.Player))
}

// deliverScheduled routes a scheduled event's outputs to sessions.
// Errors are logged; there is no issuing player to tell.
func (e *Engine) deliverScheduled(ctx context.Context, kind string, outs []action.Output, err error) {
	if err != nil {
		errutil.LogError(slog.Default(), "scheduled event failed: "+kind, err)
	}
	for _, out := range outs {
		e.sessions.Send(out.Player, out.Text)
	}
}

// LookupPlayer resolves a player name to its ref and password hash.
// Safe from any goroutine: the lookup itself runs on the world loop.
// The password check stays with the caller so the KDF never stalls
// the world.
func (e *Engine) LookupPlayer(name string) (player world.Ref, hash string, found bool) {
	q := loginQuery{name: name, reply: make(chan loginReply, 1)}
	e.Enqueue(q)
	select {
	case r := <-q.reply:
		return r.player, r.hash, r.found
	case <-e.stop:
		return world.Ref{}, "", false
	}
}

func (e *Engine) handleLogin(q loginQuery) {
	ch := e.realm.PlayerByName(q.name)
	if ch == nil {
		q.reply <- loginReply{}
		return
	}
	q.reply <- loginReply{player: ch.ID, hash: ch.PasswordHash, found: true}
}

// bootActors runs OnSpawn for every behavioral NPC. Runs once at
// startup, after hydration.
func (e *Engine) bootActors(ctx context.Context) {
	if e.hooks == nil {
		return
	}
	for _, ref := range e.realm.Refs(world.TypeNPC) {
		outs, err := e.hooks.OnSpawn(ref)
		if err != nil {
			errutil.LogError(slog.Default(), "actor spawn hook failed", err)
		}
		for _, out := range outs {
			e.sessions.Send(out.Player, out.Text)
		}
	}
}

// flush drains the realm's dirty set to the store and refreshes the
// engine gauges. A failed batch is logged and dropped; the entities
// re-persist the next time something touches them.
func (e *Engine) flush(ctx context.Context) {
	reqs := e.realm.TakePersistenceRequests()
	if len(reqs) > 0 && e.store != nil {
		if err := e.store.Apply(ctx, reqs); err != nil {
			errutil.LogError(slog.Default(), "persistence batch failed", err)
		}
	}
	if e.metrics != nil {
		e.metrics.EventQueueDepth.Set(float64(len(e.events)))
		e.metrics.SessionsActive.Set(float64(e.sessions.Count()))
		e.metrics.EntitiesLive.Set(float64(e.realm.Len()))
	}
}

// Prompt renders the player's status line.
func (e *Engine) Prompt(player world.Ref) string {
	ch := e.realm.Character(player)
	if ch == nil {
		return "> "
	}
	admin := ""
	if ch.Admin {
		admin = " (admin)"
	}
	return fmt.Sprintf("%s%s %d/%d %d/%d> ", ch.Name, admin, ch.HP, ch.MaxHP, ch.MP, ch.MaxMP)
}
