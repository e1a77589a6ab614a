// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package action implements the multi-step world mutations behind
// player and NPC commands: movement, combat, opening and closing,
// grouping, and speech. Every action validates its preconditions,
// mutates the realm, and renders observer-specific narration through
// the perception engine.
package action

import (
	"math/rand"
	"time"

	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/schedule"
	"github.com/embermud/embermud/internal/world"
)

// Output is one line of text addressed to one player.
type Output struct {
	Player world.Ref
	Text   string
}

// ActorHooks lets actions notify NPC behaviors without depending on
// the behavior package. Hook failures are logged by the caller and
// never fail the action that triggered them.
type ActorHooks interface {
	OnSpawn(npc world.Ref) ([]Output, error)
	OnActive(npc world.Ref) ([]Output, error)
	OnAttack(npc, attacker world.Ref) ([]Output, error)
	OnCharacterAttacked(npc, attacker, target world.Ref) ([]Output, error)
	OnCharacterDied(npc, died, killer world.Ref) ([]Output, error)
	OnCharacterEntered(npc, entered world.Ref) ([]Output, error)
	OnDie(npc, killer world.Ref) ([]Output, error)
	OnTalk(npc, speaker world.Ref, message string) ([]Output, error)
}

// Service executes actions against one realm. It runs entirely on the
// engine's world goroutine; nothing here is safe for concurrent use.
type Service struct {
	realm      *world.Realm
	perception *perception.Engine
	scheduler  *schedule.Scheduler
	hooks      ActorHooks
	rng        *rand.Rand
	now        func() time.Time

	// Pending auto-close dispatches per portal, so a manual close can
	// cancel the timer instead of racing it.
	autoClose map[world.Ref]schedule.Handle
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an action service. hooks may be nil until the
// behavior layer is wired in.
func NewService(realm *world.Realm, pe *perception.Engine, sched *schedule.Scheduler, rng *rand.Rand, opts ...Option) *Service {
	s := &Service{
		realm:      realm,
		perception: pe,
		scheduler:  sched,
		rng:        rng,
		now:        time.Now,
		autoClose:  make(map[world.Ref]schedule.Handle),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetHooks wires the NPC behavior layer in. Must be called before the
// engine starts processing events.
func (s *Service) SetHooks(hooks ActorHooks) { s.hooks = hooks }

// Realm returns the realm the service mutates.
func (s *Service) Realm() *world.Realm { return s.realm }

// Perception returns the service's perception engine.
func (s *Service) Perception() *perception.Engine { return s.perception }

// Rand returns the service's random source, shared with behaviors so a
// seeded run stays reproducible.
func (s *Service) Rand() *rand.Rand { return s.rng }

// outputsFromResult converts a propagation result to outputs.
func outputsFromResult(res perception.Result) []Output {
	outs := make([]Output, 0, len(res.Output))
	for _, ref := range sortedRefs(res.Output) {
		outs = append(outs, Output{Player: ref, Text: res.Output[ref]})
	}
	return outs
}

func sortedRefs(m map[world.Ref]string) []world.Ref {
	refs := make([]world.Ref, 0, len(m))
	for ref := range m {
		refs = append(refs, ref)
	}
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && refs[j].Less(refs[j-1]); j-- {
			refs[j], refs[j-1] = refs[j-1], refs[j]
		}
	}
	return refs
}

// roomBroadcast sends text directly to every player in the room,
// minus the excluded set. Used for room-local notices that need no
// propagation, like auto-close messages.
func (s *Service) roomBroadcast(room *world.Room, text string, excluded world.RefSet) []Output {
	var outs []Output
	for _, cref := range room.Characters {
		if excluded.Contains(cref) {
			continue
		}
		if ch := s.realm.Character(cref); ch != nil && ch.IsPlayer() {
			outs = append(outs, Output{Player: cref, Text: text})
		}
	}
	return outs
}

// notifyActors runs one behavior hook for every NPC in the room except
// those excluded, swallowing per-NPC hook errors: a broken behavior
// must not abort the action that tripped it.
func (s *Service) notifyActors(room *world.Room, excluded world.RefSet, hook func(npc world.Ref) ([]Output, error)) []Output {
	if s.hooks == nil {
		return nil
	}
	var outs []Output
	// The hook may mutate the room's character index; walk a copy.
	chars := make([]world.Ref, len(room.Characters))
	copy(chars, room.Characters)
	for _, cref := range chars {
		if excluded.Contains(cref) {
			continue
		}
		ch := s.realm.Character(cref)
		if ch == nil || ch.IsPlayer() || ch.Behavior == "" {
			continue
		}
		if hookOuts, err := hook(cref); err == nil {
			outs = append(outs, hookOuts...)
		}
	}
	return outs
}
