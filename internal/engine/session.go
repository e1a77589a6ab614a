// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package engine

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/embermud/embermud/internal/command"
	"github.com/embermud/embermud/internal/world"
)

// outputBuffer is the per-session output channel capacity. A full
// buffer drops the line rather than blocking the world goroutine.
const outputBuffer = 100

// Session is one live connection bound to a player. Input lines go
// into the engine queue; output chunks come back on Output.
type Session struct {
	ID     ulid.ULID
	Player world.Ref

	mu     sync.Mutex
	out    chan string
	closed bool
}

// Output is the stream the transport reads and writes to the wire.
// It is closed when the session ends.
func (s *Session) Output() <-chan string {
	return s.out
}

// Write queues raw handler output. Implements io.Writer so a session
// can be an Execution's output target directly.
func (s *Session) Write(p []byte) (int, error) {
	s.push(string(p))
	return len(p), nil
}

// push queues one chunk, dropping it if the session is closed or the
// transport is not draining. The world mutation already happened, so
// dropping output is the only safe failure mode.
func (s *Session) push(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.out <- text:
	default:
		slog.Warn("session output dropped: buffer full",
			"session_id", s.ID.String(),
			"player", s.Player.String(),
		)
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

// SessionManager tracks live sessions by player. It implements
// command.SessionService for the handler layer.
type SessionManager struct {
	mu       sync.RWMutex
	byPlayer map[world.Ref][]*Session
	activity map[world.Ref]time.Time
}

var _ command.SessionService = (*SessionManager)(nil)

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		byPlayer: make(map[world.Ref][]*Session),
		activity: make(map[world.Ref]time.Time),
	}
}

// Attach creates a session for the player. A player may hold several
// sessions; output fans out to all of them.
func (sm *SessionManager) Attach(player world.Ref) *Session {
	s := &Session{
		ID:     NewULID(),
		Player: player,
		out:    make(chan string, outputBuffer),
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.byPlayer[player] = append(sm.byPlayer[player], s)
	sm.activity[player] = time.Now()
	return s
}

// Detach removes one session, closing its output stream. The player's
// other sessions stay live.
func (sm *SessionManager) Detach(s *Session) {
	sm.mu.Lock()
	sessions := sm.byPlayer[s.Player]
	for i, other := range sessions {
		if other == s {
			sm.byPlayer[s.Player] = append(sessions[:i], sessions[i+1:]...)
			break
		}
	}
	if len(sm.byPlayer[s.Player]) == 0 {
		delete(sm.byPlayer, s.Player)
		delete(sm.activity, s.Player)
	}
	sm.mu.Unlock()
	s.close()
}

// Touch refreshes the player's idle clock. Called per input line.
func (sm *SessionManager) Touch(player world.Ref) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.byPlayer[player]; ok {
		sm.activity[player] = time.Now()
	}
}

// ListPlayers implements command.SessionService. Players come back in
// name-independent ref order so listings are stable.
func (sm *SessionManager) ListPlayers() []world.Ref {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	players := make([]world.Ref, 0, len(sm.byPlayer))
	for player := range sm.byPlayer {
		players = append(players, player)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Less(players[j]) })
	return players
}

// IdleTime implements command.SessionService.
func (sm *SessionManager) IdleTime(player world.Ref) time.Duration {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	last, ok := sm.activity[player]
	if !ok {
		return 0
	}
	return time.Since(last)
}

// Send implements command.SessionService. The line goes to every one
// of the player's sessions, with a newline appended.
func (sm *SessionManager) Send(player world.Ref, text string) {
	sm.mu.RLock()
	sessions := append([]*Session(nil), sm.byPlayer[player]...)
	sm.mu.RUnlock()
	for _, s := range sessions {
		s.push(text + "\n")
	}
}

// Close implements command.SessionService, disconnecting all of the
// player's sessions.
func (sm *SessionManager) Close(player world.Ref) {
	sm.mu.Lock()
	sessions := sm.byPlayer[player]
	delete(sm.byPlayer, player)
	delete(sm.activity, player)
	sm.mu.Unlock()
	for _, s := range sessions {
		s.close()
	}
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	n := 0
	for _, sessions := range sm.byPlayer {
		n += len(sessions)
	}
	return n
}
