// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package persist

import (
	"context"
	"sync"

	"github.com/embermud/embermud/internal/world"
)

// MemoryStore keeps entities in a map. It backs tests and the
// ephemeral server mode where no database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	entities map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entities: make(map[string][]byte)}
}

// Apply implements Store.
func (s *MemoryStore) Apply(_ context.Context, reqs []world.PersistenceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range reqs {
		key := req.Ref.String()
		if req.Remove {
			delete(s.entities, key)
			continue
		}
		data := make([]byte, len(req.Data))
		copy(data, req.Data)
		s.entities[key] = data
	}
	return nil
}

// Insert implements Store.
func (s *MemoryStore) Insert(_ context.Context, ref world.Ref, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ref.String()
	if _, ok := s.entities[key]; ok {
		return ErrExists
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.entities[key] = stored
	return nil
}

// LoadAll implements Store.
func (s *MemoryStore) LoadAll(_ context.Context, fn func(ref world.Ref, data []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, data := range s.entities {
		ref, err := world.ParseRef(key)
		if err != nil {
			return err
		}
		if err := fn(ref, data); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() {}

// Len reports the number of stored entities.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}
