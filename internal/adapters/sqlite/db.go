// Package sqlite opens the embedded SQLite backend (modernc.org/sqlite via sqlx).
// Timestamps are stored as unix microseconds.
package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS person (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	display_name TEXT,
	bio          TEXT,
	local        INTEGER NOT NULL DEFAULT 1,
	bot_account  INTEGER NOT NULL DEFAULT 0,
	deleted      INTEGER NOT NULL DEFAULT 0,
	banned       INTEGER NOT NULL DEFAULT 0,
	ban_expires  INTEGER,
	published    INTEGER NOT NULL,
	updated      INTEGER
);
CREATE TABLE IF NOT EXISTS person_aggregates (
	person_id     TEXT PRIMARY KEY REFERENCES person (id) ON DELETE CASCADE,
	post_count    INTEGER NOT NULL DEFAULT 0,
	post_score    INTEGER NOT NULL DEFAULT 0,
	comment_count INTEGER NOT NULL DEFAULT 0,
	comment_score INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS local_user (
	person_id TEXT PRIMARY KEY REFERENCES person (id) ON DELETE CASCADE,
	admin     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_person_published ON person (published);
`

// Open opens the database at dsn and makes sure the schema exists.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// OpenMemory opens a private in-memory database, mainly for tests.
func OpenMemory(ctx context.Context) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:persons_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	// The database lives as long as its last connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	return db, nil
}

func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
