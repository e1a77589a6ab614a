// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/embermud/embermud/internal/action"
	"github.com/embermud/embermud/internal/actor"
	"github.com/embermud/embermud/internal/command"
	"github.com/embermud/embermud/internal/command/handlers"
	"github.com/embermud/embermud/internal/config"
	"github.com/embermud/embermud/internal/engine"
	"github.com/embermud/embermud/internal/logging"
	"github.com/embermud/embermud/internal/observability"
	"github.com/embermud/embermud/internal/perception"
	"github.com/embermud/embermud/internal/persist"
	"github.com/embermud/embermud/internal/schedule"
	"github.com/embermud/embermud/internal/telnet"
	"github.com/embermud/embermud/internal/world"
)

// shutdownTimeout bounds how long Stop calls may take during shutdown.
const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the game server",
		Long: `Start the game server: load the world from the database (or a seed
file on first boot), run the simulation engine, and accept telnet
connections.`,
		RunE: runServe,
	}

	// Flag names mirror the config file keys so posflag can merge them.
	defaults := config.Default()
	flags := cmd.Flags()
	flags.String("server.telnetAddr", defaults.Server.TelnetAddr, "telnet listen address")
	flags.String("server.metricsAddr", defaults.Server.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("database.url", defaults.Database.URL, "PostgreSQL URL (empty = in-memory, ephemeral)")
	flags.Bool("database.autoMigrate", defaults.Database.AutoMigrate, "run pending migrations on startup")
	flags.String("log.level", defaults.Log.Level, "log level (debug, info, warn, error)")
	flags.String("log.format", defaults.Log.Format, "log format (json or text)")
	flags.Int("limits.burst", defaults.Limits.Burst, "per-session command burst capacity")
	flags.Float64("limits.sustained", defaults.Limits.Sustained, "per-session sustained commands per second")
	flags.Int("limits.queueSize", defaults.Limits.QueueSize, "engine event queue capacity")
	flags.String("seedPath", defaults.SeedPath, "world seed YAML loaded when the database is empty")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("embermud", version, cfg.Log.Format, cfg.Log.Level)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	realm := world.NewRealm()
	if err := persist.Hydrate(ctx, store, realm); err != nil {
		return err
	}
	slog.Info("world loaded", "entities", realm.Len())

	// A fresh database gets the seed world. Add marks everything dirty,
	// so the first engine flush persists it.
	if realm.Len() == 0 && cfg.SeedPath != "" {
		data, readErr := os.ReadFile(cfg.SeedPath)
		if readErr != nil {
			return oops.Code("SEED_FAILED").With("path", cfg.SeedPath).Wrap(readErr)
		}
		if seedErr := world.LoadSeed(realm, data); seedErr != nil {
			return seedErr
		}
		slog.Info("world seeded", "path", cfg.SeedPath, "entities", realm.Len())
	}

	// Readiness flips once the engine and listeners are up.
	var ready atomic.Bool
	var obs *observability.Server
	var metrics *observability.Metrics
	var obsErrCh <-chan error
	if cfg.Server.MetricsAddr != "" {
		obs = observability.NewServer(cfg.Server.MetricsAddr, ready.Load)
		command.RegisterMetrics(obs.Registry())
		metrics = obs.Metrics()

		obsErrCh, err = obs.Start()
		if err != nil {
			return oops.Code("METRICS_START_FAILED").With("addr", cfg.Server.MetricsAddr).Wrap(err)
		}
		defer stopObservability(obs)
		slog.Info("observability server started", "addr", obs.Addr())
	}

	limiterCfg := command.RateLimiterConfig{
		BurstCapacity: cfg.Limits.Burst,
		SustainedRate: cfg.Limits.Sustained,
	}
	var limiter *command.RateLimiter
	if obs != nil {
		limiter = command.NewRateLimiterWithRegistry(limiterCfg, obs.Registry())
	} else {
		limiter = command.NewRateLimiter(limiterCfg)
	}
	defer limiter.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // game randomness, not crypto

	var eng *engine.Engine
	sched := schedule.New(func(ev any) { eng.Enqueue(ev) })
	defer sched.Stop()

	svc := action.NewService(realm, perception.New(realm, rng), sched, rng)
	hooks := actor.New(svc, sched)
	svc.SetHooks(hooks)

	registry := command.NewRegistry()
	handlers.RegisterAll(registry)
	sessions := engine.NewSessionManager()
	dispatcher, err := command.NewDispatcher(registry, &command.Services{
		Realm:    realm,
		Actions:  svc,
		Sessions: sessions,
	}, command.WithRateLimiter(limiter))
	if err != nil {
		return err
	}

	engOpts := []engine.Option{
		engine.WithStore(store),
		engine.WithQueueSize(cfg.Limits.QueueSize),
	}
	if metrics != nil {
		engOpts = append(engOpts, engine.WithMetrics(metrics))
	}
	eng, err = engine.New(realm, dispatcher, svc, hooks, sessions, engOpts...)
	if err != nil {
		return err
	}
	eng.Start(ctx)
	defer eng.Stop()

	var telnetOpts []telnet.Option
	if metrics != nil {
		telnetOpts = append(telnetOpts, telnet.WithMetrics(metrics))
	}
	srv := telnet.NewServer(cfg.Server.TelnetAddr, eng, telnetOpts...)

	telnetErrCh := make(chan error, 1)
	go func() {
		telnetErrCh <- srv.Run(ctx)
	}()

	ready.Store(true)
	slog.Info("server ready", "telnet_addr", cfg.Server.TelnetAddr, "version", version)

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-telnetErrCh:
		if err != nil {
			return err
		}
	case err := <-obsErrCh:
		if err != nil {
			return oops.Code("METRICS_SERVER_FAILED").Wrap(err)
		}
	}

	ready.Store(false)
	slog.Info("shutting down")
	return nil
}

// openStore connects to PostgreSQL when a URL is configured, running
// pending migrations first if autoMigrate is on. Without a URL the
// world lives in memory and is lost on exit.
func openStore(ctx context.Context, db config.Database) (persist.Store, error) {
	if db.URL == "" {
		slog.Warn("no database configured, world state is ephemeral")
		return persist.NewMemoryStore(), nil
	}

	if db.AutoMigrate {
		migrator, err := persist.NewMigrator(db.URL)
		if err != nil {
			return nil, err
		}
		if err := migrator.Up(); err != nil {
			_ = migrator.Close()
			return nil, err
		}
		if err := migrator.Close(); err != nil {
			return nil, err
		}
	}

	return persist.NewPostgresStore(ctx, db.URL)
}

func stopObservability(obs *observability.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := obs.Stop(ctx); err != nil {
		slog.Warn("error stopping observability server", "error", err)
	}
}
