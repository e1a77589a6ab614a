// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package persist writes the realm's dirty entities to durable
// storage and loads them back on boot. Keys follow the ref string
// convention, e.g. "room.000000042".
package persist

import (
	"context"

	"github.com/samber/oops"

	"github.com/embermud/embermud/internal/world"
)

// ErrExists is returned by Insert when the key is already present.
var ErrExists = oops.Code("ENTITY_EXISTS").Errorf("entity already exists")

// Store is the durable side of the persistence boundary. Apply runs
// one drained batch; LoadAll streams every stored entity.
type Store interface {
	// Apply writes a batch of persist and remove requests. A batch is
	// everything one world event dirtied, so partial application after
	// an error is acceptable: the next drain re-persists survivors.
	Apply(ctx context.Context, reqs []world.PersistenceRequest) error

	// Insert adds a new entity and fails with ErrExists when the key
	// is taken. Seeding uses this to stay idempotent.
	Insert(ctx context.Context, ref world.Ref, data []byte) error

	// LoadAll invokes fn for every stored entity. fn errors abort the
	// scan.
	LoadAll(ctx context.Context, fn func(ref world.Ref, data []byte) error) error

	// Close releases the store's resources.
	Close()
}

// Hydrate loads every stored entity into the realm.
func Hydrate(ctx context.Context, store Store, realm *world.Realm) error {
	return store.LoadAll(ctx, func(ref world.Ref, data []byte) error {
		if err := realm.Hydrate(ref, data); err != nil {
			return oops.With("ref", ref.String()).Wrap(err)
		}
		return nil
	})
}
