// Package repo contains the storage of the trip search API: Postgres access
// for the place catalog and search history, and the in-memory session store.
// No business logic lives here, only SQL, type mapping and locking.
package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/tripsearch/backend/migrations"
)

// db is what the Postgres repos need from a connection. *pgxpool.Pool
// satisfies it in production; tests pass a pgx.Tx that is rolled back.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner reads one places or searches row from either pgx.Row or pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Connect opens a pool for dsn, checks that the server answers and applies
// every pending migration. The caller owns the returned pool.
func Connect(ctx context.Context, dsn string, log *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.Connect: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repo.Connect: ping: %w", err)
	}
	if err := migrate(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repo.Connect: %w", err)
	}
	return pool, nil
}

// migrate runs the embedded goose migrations. goose needs a *sql.DB, which
// stdlib.OpenDBFromPool provides on top of the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, res := range results {
		log.InfoContext(ctx, "migration applied", "version", res.Source.Version, "path", res.Source.Path)
	}
	return nil
}
