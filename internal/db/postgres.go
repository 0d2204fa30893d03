package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/projecttracker/internal/config"
	"github.com/yigit/projecttracker/internal/pkg/helpers"
)

// PostgresDB owns the connection pool of the relational backend
type PostgresDB struct {
	Pool *pgxpool.Pool
}

// poolConfig derives the pgxpool settings from the database section
func poolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	pg := cfg.Database.Postgres
	if pg.MaxOpenConns > 0 {
		pc.MaxConns = int32(pg.MaxOpenConns)
	}
	if pg.MaxIdleConns > 0 && int32(pg.MaxIdleConns) <= pc.MaxConns {
		pc.MinConns = int32(pg.MaxIdleConns)
	}
	pc.MaxConnLifetime = helpers.ParseDuration(pg.ConnMaxLifetime, time.Hour)
	pc.ConnConfig.RuntimeParams["application_name"] = "projecttracker"

	return pc, nil
}

// NewPostgresDB opens the pool and pings the server within the configured connect timeout
func NewPostgresDB(ctx context.Context, cfg *config.Config) (*PostgresDB, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, helpers.ParseDuration(cfg.Database.ConnectTimeout, 10*time.Second))
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return &PostgresDB{Pool: pool}, nil
}

// Close releases every pooled connection
func (db *PostgresDB) Close(_ context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	return nil
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx pgx.Tx) error

// WithTransaction commits when fn succeeds and rolls back otherwise
func (db *PostgresDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		return fn(ctx, tx)
	})
}
