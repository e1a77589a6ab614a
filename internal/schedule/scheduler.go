// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package schedule provides the delayed, cancelable dispatch of events
// back into the engine's serialized queue. Timers fire on background
// goroutines but never touch world state: delivery always goes through
// the sink, which feeds the single world-mutation loop.
package schedule

import (
	"sync"
	"time"
)

// Sink receives a due event. It must be safe to call from timer
// goroutines; the engine's sink enqueues onto its event channel.
type Sink func(event any)

// Scheduler dispatches events after a delay.
type Scheduler struct {
	sink Sink

	mu     sync.Mutex
	next   uint64
	timers map[uint64]*time.Timer
}

// New creates a scheduler delivering into sink.
func New(sink Sink) *Scheduler {
	return &Scheduler{
		sink:   sink,
		timers: make(map[uint64]*time.Timer),
	}
}

// Handle identifies a cancelable pending dispatch.
type Handle struct {
	id uint64
	s  *Scheduler
}

// DispatchAfter delivers event into the sink after delay.
// Fire-and-forget: the dispatch cannot be canceled.
func (s *Scheduler) DispatchAfter(event any, delay time.Duration) {
	s.DispatchCancelableAfter(event, delay)
}

// DispatchCancelableAfter delivers event into the sink after delay and
// returns a handle that can prevent delivery if it has not fired yet.
func (s *Scheduler) DispatchCancelableAfter(event any, delay time.Duration) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		_, live := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()
		if live {
			s.sink(event)
		}
	})
	return Handle{id: id, s: s}
}

// Cancel prevents delivery if the dispatch has not fired. It returns
// true if delivery was prevented.
func (h Handle) Cancel() bool {
	if h.s == nil {
		return false
	}
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	t, ok := h.s.timers[h.id]
	if !ok {
		return false
	}
	delete(h.s.timers, h.id)
	t.Stop()
	return true
}

// Stop cancels every pending dispatch. The scheduler stays usable.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the number of pending dispatches.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
