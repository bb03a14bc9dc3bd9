package postgres

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the subset of the platform schema the person read-model queries.
// The platform owns these tables; Migrate exists for local development and tests.
//
//go:embed schema.sql
var Schema string

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
