// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

//go:build integration

package persist_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/embermud/embermud/internal/persist"
	"github.com/embermud/embermud/internal/world"
)

// setupPostgresContainer starts a PostgreSQL container, migrates it,
// and returns a connected store.
func setupPostgresContainer() (*persist.PostgresStore, func(), error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("embermud_test"),
		postgres.WithUsername("embermud"),
		postgres.WithPassword("embermud"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := persist.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		return nil, nil, err
	}

	store, err := persist.NewPostgresStore(ctx, connStr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		store.Close()
		_ = container.Terminate(ctx)
	}

	return store, cleanup, nil
}

var _ = Describe("PostgresStore", func() {
	var store *persist.PostgresStore
	var cleanup func()

	BeforeEach(func() {
		var err error
		store, cleanup, err = setupPostgresContainer()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		cleanup()
	})

	Describe("Apply", func() {
		It("round-trips a batch of entities", func() {
			ctx := context.Background()
			room := world.Ref{Type: world.TypeRoom, ID: 1}
			player := world.Ref{Type: world.TypePlayer, ID: 2}

			err := store.Apply(ctx, []world.PersistenceRequest{
				{Ref: room, Data: []byte(`{"name": "The Den"}`)},
				{Ref: player, Data: []byte(`{"name": "Alice"}`)},
			})
			Expect(err).NotTo(HaveOccurred())

			loaded := map[string]string{}
			err = store.LoadAll(ctx, func(ref world.Ref, data []byte) error {
				loaded[ref.String()] = string(data)
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(HaveLen(2))
			Expect(loaded["room.000000001"]).To(MatchJSON(`{"name": "The Den"}`))
		})

		It("overwrites on a second persist of the same ref", func() {
			ctx := context.Background()
			room := world.Ref{Type: world.TypeRoom, ID: 1}

			err := store.Apply(ctx, []world.PersistenceRequest{
				{Ref: room, Data: []byte(`{"name": "Before"}`)},
			})
			Expect(err).NotTo(HaveOccurred())

			err = store.Apply(ctx, []world.PersistenceRequest{
				{Ref: room, Data: []byte(`{"name": "After"}`)},
			})
			Expect(err).NotTo(HaveOccurred())

			var got string
			err = store.LoadAll(ctx, func(_ world.Ref, data []byte) error {
				got = string(data)
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(MatchJSON(`{"name": "After"}`))
		})

		It("removes entities", func() {
			ctx := context.Background()
			room := world.Ref{Type: world.TypeRoom, ID: 1}

			err := store.Apply(ctx, []world.PersistenceRequest{
				{Ref: room, Data: []byte(`{"name": "Doomed"}`)},
			})
			Expect(err).NotTo(HaveOccurred())

			err = store.Apply(ctx, []world.PersistenceRequest{
				{Ref: room, Remove: true},
			})
			Expect(err).NotTo(HaveOccurred())

			count := 0
			err = store.LoadAll(ctx, func(world.Ref, []byte) error {
				count++
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})

	Describe("Insert", func() {
		It("rejects a duplicate key with ErrExists", func() {
			ctx := context.Background()
			item := world.Ref{Type: world.TypeItem, ID: 5}

			Expect(store.Insert(ctx, item, []byte(`{"name": "lantern"}`))).To(Succeed())
			err := store.Insert(ctx, item, []byte(`{"name": "lantern"}`))
			Expect(err).To(MatchError(persist.ErrExists))
		})
	})
})
