// Package testutil provides a migrated Postgres pool for adapter tests.
// Tests are skipped unless TEST_DATABASE_URL is set.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/person-views/internal/adapters/postgres"
	"github.com/Overland-East-Bay/person-views/internal/domain"
)

func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 4})
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE local_user, person_aggregates, person`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

// Seeder returns a contracttest.SeedFunc-compatible function writing to pool.
func Seeder(pool *pgxpool.Pool) func(ctx context.Context, p domain.Person, counts *domain.PersonAggregates, local *domain.LocalAccountFlags) error {
	return func(ctx context.Context, p domain.Person, counts *domain.PersonAggregates, local *domain.LocalAccountFlags) error {
		id, err := uuid.Parse(string(p.ID))
		if err != nil {
			return err
		}
		return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `
				INSERT INTO person (id, name, display_name, bio, local, bot_account, deleted, banned, ban_expires, published, updated)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			`, id, p.Name, p.DisplayName, p.Bio, p.Local, p.BotAccount, p.Deleted, p.Banned, p.BanExpires, p.Published.UTC(), p.Updated); err != nil {
				return err
			}
			if counts != nil {
				if _, err := tx.Exec(ctx, `
					INSERT INTO person_aggregates (person_id, post_count, post_score, comment_count, comment_score)
					VALUES ($1, $2, $3, $4, $5)
				`, id, counts.PostCount, counts.PostScore, counts.CommentCount, counts.CommentScore); err != nil {
					return err
				}
			}
			if local != nil {
				if _, err := tx.Exec(ctx, `INSERT INTO local_user (person_id, admin) VALUES ($1, $2)`, id, local.Admin); err != nil {
					return err
				}
			}
			return nil
		})
	}
}
