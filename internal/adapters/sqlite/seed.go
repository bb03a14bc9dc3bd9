package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Overland-East-Bay/person-views/internal/domain"
)

// Seed writes a person with its optional aggregate row and local account in
// one transaction. The platform owns these tables; Seed serves local
// development and tests.
func Seed(ctx context.Context, db *sqlx.DB, p domain.Person, counts *domain.PersonAggregates, local *domain.LocalAccountFlags) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, `
		INSERT INTO person (id, name, display_name, bio, local, bot_account, deleted, banned, ban_expires, published, updated)
		VALUES (:id, :name, :display_name, :bio, :local, :bot_account, :deleted, :banned, :ban_expires, :published, :updated)
	`, map[string]any{
		"id":           string(p.ID),
		"name":         p.Name,
		"display_name": nullString(p.DisplayName),
		"bio":          nullString(p.Bio),
		"local":        p.Local,
		"bot_account":  p.BotAccount,
		"deleted":      p.Deleted,
		"banned":       p.Banned,
		"ban_expires":  nullMicros(p.BanExpires),
		"published":    p.Published.UTC().UnixMicro(),
		"updated":      nullMicros(p.Updated),
	}); err != nil {
		return err
	}

	if counts != nil {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO person_aggregates (person_id, post_count, post_score, comment_count, comment_score)
			VALUES (?, ?, ?, ?, ?)
		`, string(p.ID), counts.PostCount, counts.PostScore, counts.CommentCount, counts.CommentScore); err != nil {
			return err
		}
	}
	if local != nil {
		if _, err = tx.ExecContext(ctx, `INSERT INTO local_user (person_id, admin) VALUES (?, ?)`, string(p.ID), local.Admin); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullMicros(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UTC().UnixMicro(), Valid: true}
}
