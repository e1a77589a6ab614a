// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/embermud/embermud/internal/world"
)

const (
	upsertSQL = `INSERT INTO entities (key, data, updated_at)
	 VALUES ($1, $2, now())
	 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	insertSQL = `INSERT INTO entities (key, data, updated_at) VALUES ($1, $2, now())`
	deleteSQL = `DELETE FROM entities WHERE key = $1`
	loadSQL   = `SELECT key, data FROM entities ORDER BY key`
)

// pool abstracts pgxpool.Pool for unit testing with pgxmock.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store on top of a pgx connection pool.
type PostgresStore struct {
	pool pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to the database and verifies the
// connection, retrying with fibonacci backoff so the server survives
// a database that is still coming up.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").Wrap(err)
	}

	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(200*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		p.Close()
		return nil, oops.Code("STORE_CONNECT_FAILED").With("operation", "ping").Wrap(err)
	}

	return &PostgresStore{pool: p}, nil
}

// newPostgresStoreWithPool wires an existing pool; used by tests.
func newPostgresStoreWithPool(p pool) *PostgresStore {
	return &PostgresStore{pool: p}
}

// Apply implements Store. The whole batch goes out in one pipelined
// round trip.
func (s *PostgresStore) Apply(ctx context.Context, reqs []world.PersistenceRequest) error {
	if len(reqs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, req := range reqs {
		key := req.Ref.String()
		if req.Remove {
			batch.Queue(deleteSQL, key)
			continue
		}
		batch.Queue(upsertSQL, key, req.Data)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close() //nolint:errcheck // per-statement errors surface below

	for _, req := range reqs {
		if _, err := results.Exec(); err != nil {
			return oops.Code("STORE_APPLY_FAILED").
				With("ref", req.Ref.String()).
				With("remove", req.Remove).
				Wrap(err)
		}
	}
	return nil
}

// Insert implements Store. A duplicate key maps to ErrExists so
// seeding can skip entities that already made it in.
func (s *PostgresStore) Insert(ctx context.Context, ref world.Ref, data []byte) error {
	if _, err := s.pool.Exec(ctx, insertSQL, ref.String(), data); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrExists
		}
		return oops.Code("STORE_INSERT_FAILED").With("ref", ref.String()).Wrap(err)
	}
	return nil
}

// LoadAll implements Store.
func (s *PostgresStore) LoadAll(ctx context.Context, fn func(ref world.Ref, data []byte) error) error {
	rows, err := s.pool.Query(ctx, loadSQL)
	if err != nil {
		return oops.Code("STORE_LOAD_FAILED").Wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return oops.Code("STORE_LOAD_FAILED").With("operation", "scan").Wrap(err)
		}
		ref, err := world.ParseRef(key)
		if err != nil {
			return oops.Code("STORE_LOAD_FAILED").With("key", key).Wrap(err)
		}
		if err := fn(ref, data); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return oops.Code("STORE_LOAD_FAILED").With("operation", "iterate").Wrap(err)
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
