// Package app wires configuration into the concrete place sources and trip
// store shared by the api server and the tripctl CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/dfw-explorer/internal/config"
	"github.com/pkordes/dfw-explorer/internal/normalize"
	"github.com/pkordes/dfw-explorer/internal/repo"
	"github.com/pkordes/dfw-explorer/internal/source"
	"github.com/pkordes/dfw-explorer/migrations"
)

// NewFetcher builds the primary → snapshot → bundled fallback chain.
// Sources without a configured URL stay in the chain and fail fast.
func NewFetcher(cfg config.Config, client *http.Client, log *slog.Logger) *source.Fetcher {
	n := normalize.Normalizer{BaseURL: cfg.ImageBaseURL}
	prober := source.NewProber(client, cfg.PrimaryURL, cfg.ProbeTimeout, log)
	return source.NewFetcher(log,
		source.NewPrimarySource(client, cfg.PrimaryURL, cfg.PrimaryTimeout, prober, n),
		source.NewSnapshotSource(client, cfg.SnapshotURL, cfg.SnapshotTimeout, n),
		source.NewBundledSource(n, log),
	)
}

// OpenStore opens the KV backend selected by cfg.StoreDriver. The returned
// close function releases it and is never nil.
func OpenStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.KV, func(), error) {
	noop := func() {}
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory trip store; trips are lost on exit")
		return repo.NewMemoryKV(), noop, nil

	case config.StoreFile:
		log.Info("using file trip store", "path", cfg.StorePath)
		return repo.NewFileKV(cfg.StorePath), noop, nil

	case config.StoreBadger:
		kv, err := repo.OpenBadgerKV(cfg.StorePath)
		if err != nil {
			return nil, noop, fmt.Errorf("app.OpenStore: %w", err)
		}
		log.Info("using badger trip store", "dir", cfg.StorePath)
		return kv, func() {
			if err := kv.Close(); err != nil {
				log.Error("close badger store", "error", err)
			}
		}, nil

	case config.StorePostgres:
		pool, err := openPostgres(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, noop, fmt.Errorf("app.OpenStore: %w", err)
		}
		return repo.NewPostgresKV(pool), pool.Close, nil
	}
	return nil, noop, fmt.Errorf("app.OpenStore: unknown store driver %q", cfg.StoreDriver)
}

// openPostgres connects, verifies the connection and applies pending
// migrations.
func openPostgres(ctx context.Context, dsn string, log *slog.Logger) (*pgxpool.Pool, error) {
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("database connection established")

	// goose needs database/sql; borrow a *sql.DB view over the same pool.
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	for _, r := range results {
		log.Info("migration applied", "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
	}
	return pool, nil
}
