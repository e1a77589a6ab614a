// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package telnet

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/embermud/embermud/internal/auth"
	"github.com/embermud/embermud/internal/engine"
)

// maxLoginAttempts disconnects a connection that keeps failing auth.
const maxLoginAttempts = 3

// dummyHash is verified against for unknown names.
var dummyHash, _ = auth.HashPassword("embermud")

// ConnectionHandler drives one telnet connection through login and
// the session phase.
type ConnectionHandler struct {
	conn    net.Conn
	reader  *bufio.Reader
	engine  *engine.Engine
	session *engine.Session
}

// NewConnectionHandler creates a handler for the connection.
func NewConnectionHandler(conn net.Conn, eng *engine.Engine) *ConnectionHandler {
	return &ConnectionHandler{
		conn:   conn,
		reader: bufio.NewReader(conn),
		engine: eng,
	}
}

// Handle processes the connection until it closes. The reader runs in
// its own goroutine; output is pumped from the session once attached.
func (h *ConnectionHandler) Handle(ctx context.Context) {
	defer func() {
		if h.session != nil {
			h.engine.Sessions().Detach(h.session)
		}
		if err := h.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			slog.Debug("error closing connection", "error", err)
		}
	}()

	h.write("Welcome to EmberMUD!\n")
	h.write("Use: connect <name> <password>\n")

	lineCh := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		for {
			line, err := h.reader.ReadString('\n')
			if err != nil {
				errCh <- err
				return
			}
			select {
			case lineCh <- strings.TrimSpace(line):
			case <-ctx.Done():
				return
			}
		}
	}()

	attempts := 0
	for {
		var output <-chan string
		if h.session != nil {
			output = h.session.Output()
		}

		select {
		case <-ctx.Done():
			return

		case err := <-errCh:
			if !errors.Is(err, io.EOF) {
				slog.Debug("connection read error", "error", err)
			}
			return

		case line := <-lineCh:
			if h.session == nil {
				if !h.login(line, &attempts) {
					return
				}
				continue
			}
			h.engine.Enqueue(engine.Input{Session: h.session, Line: line})

		case chunk, ok := <-output:
			// The session closes when the player quits or is
			// disconnected by an admin.
			if !ok {
				h.session = nil
				return
			}
			h.write(chunk)
		}
	}
}

// login handles one pre-auth line. Returns false when the connection
// should drop.
func (h *ConnectionHandler) login(line string, attempts *int) bool {
	if line == "" {
		return true
	}
	fields := strings.Fields(line)
	if len(fields) != 3 || !strings.EqualFold(fields[0], "connect") {
		h.write("Use: connect <name> <password>\n")
		return true
	}
	name, password := fields[1], fields[2]

	player, hash, found := h.engine.LookupPlayer(name)
	ok := false
	if found {
		// The KDF runs here, off the world goroutine.
		ok, _ = auth.VerifyPassword(password, hash)
	} else {
		// Burn the same KDF cost for unknown names.
		_, _ = auth.VerifyPassword(password, dummyHash)
	}
	if !ok {
		*attempts++
		slog.Info("failed login attempt", "name", name, "attempts", *attempts)
		if *attempts >= maxLoginAttempts {
			h.write("Too many failed attempts.\n")
			return false
		}
		h.write("Invalid name or password.\n")
		return true
	}

	h.session = h.engine.Sessions().Attach(player)
	h.write("Welcome, " + name + "!\n")
	// Show the room right away.
	h.engine.Enqueue(engine.Input{Session: h.session, Line: "look"})
	return true
}

// write sends text to the socket, translating bare newlines to CRLF.
func (h *ConnectionHandler) write(text string) {
	wire := strings.ReplaceAll(text, "\n", "\r\n")
	if _, err := h.conn.Write([]byte(wire)); err != nil {
		slog.Debug("connection write error", "error", err)
	}
}
