// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package telnet is the line-based transport. Connections
// authenticate against existing players, feed lines into the engine
// queue, and relay session output back to the socket.
package telnet

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"github.com/samber/oops"

	"github.com/embermud/embermud/internal/engine"
	"github.com/embermud/embermud/internal/observability"
)

// Server accepts telnet connections.
type Server struct {
	addr    string
	engine  *engine.Engine
	metrics *observability.Metrics // optional

	mu       sync.RWMutex
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics counts accepted connections.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a telnet server feeding eng.
func NewServer(addr string, eng *engine.Engine, opts ...Option) *Server {
	s := &Server{addr: addr, engine: eng}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the bound listen address, or "" before Run.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run accepts connections until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return oops.Code("TELNET_LISTEN_FAILED").With("addr", s.addr).Wrap(err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	slog.Info("telnet server started", "addr", listener.Addr())

	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			slog.Debug("error closing listener", "error", err)
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				slog.Error("accept failed", "error", err)
				continue
			}
		}
		if s.metrics != nil {
			s.metrics.ConnectionsTotal.WithLabelValues("telnet").Inc()
		}
		handler := NewConnectionHandler(conn, s.engine)
		go handler.Handle(ctx)
	}
}
