// Package db provides the PostgreSQL-backed water body store. Repositories
// accept a DBTX interface that is satisfied by both *pgxpool.Pool and pgx.Tx,
// so the same code runs inside or outside a transaction.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema creates the tables used by this package. It is idempotent.
const Schema = `CREATE TABLE IF NOT EXISTS water_bodies (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	water_type   TEXT NOT NULL DEFAULT 'unknown',
	raw_type     TEXT,
	latitude     NUMERIC(9,6),
	longitude    NUMERIC(9,6),
	region       TEXT,
	fish_species TEXT[] NOT NULL DEFAULT '{}',
	permit_price NUMERIC(8,2),
	is_assumed   BOOLEAN NOT NULL DEFAULT FALSE,
	station_id   TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, Schema)
	return err
}
