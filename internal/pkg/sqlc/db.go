// Package sqlc holds the typed Postgres queries used by the outbound db
// adapters, in the shape sqlc emits for pgx/v5.
package sqlc

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema creates every table the queries need. It is idempotent.
//
//go:embed schema.sql
var Schema string

type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}
