package personview

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Overland-East-Bay/person-views/internal/adapters/sqlview"
	"github.com/Overland-East-Bay/person-views/internal/domain"
	"github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

// Repo is a SQLite implementation of personview.Repository.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

type viewRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	DisplayName  sql.NullString `db:"display_name"`
	Bio          sql.NullString `db:"bio"`
	Local        bool           `db:"local"`
	BotAccount   bool           `db:"bot_account"`
	Deleted      bool           `db:"deleted"`
	Banned       bool           `db:"banned"`
	BanExpires   sql.NullInt64  `db:"ban_expires"`
	Published    int64          `db:"published"`
	Updated      sql.NullInt64  `db:"updated"`
	PostCount    int64          `db:"post_count"`
	PostScore    int64          `db:"post_score"`
	CommentCount int64          `db:"comment_count"`
	CommentScore int64          `db:"comment_score"`
}

func (r *Repo) Read(ctx context.Context, id domain.PersonID) (domain.PersonView, error) {
	if r.db == nil {
		return domain.PersonView{}, errors.New("nil sqlite db")
	}
	var row viewRow
	if err := r.db.GetContext(ctx, &row, sqlview.SQLite.Read(), string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PersonView{}, personview.ErrNotFound
		}
		return domain.PersonView{}, err
	}
	return row.toDomain(), nil
}

func (r *Repo) IsAdmin(ctx context.Context, id domain.PersonID) (bool, error) {
	if r.db == nil {
		return false, errors.New("nil sqlite db")
	}
	var admin bool
	if err := r.db.GetContext(ctx, &admin, sqlview.SQLite.IsAdmin(), string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, personview.ErrNotFound
		}
		return false, err
	}
	return admin, nil
}

func (r *Repo) List(ctx context.Context, l personview.Listing) ([]domain.PersonView, error) {
	if r.db == nil {
		return nil, errors.New("nil sqlite db")
	}
	query, args := sqlview.SQLite.List(l)

	var rows []viewRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]domain.PersonView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (row viewRow) toDomain() domain.PersonView {
	pid := domain.PersonID(row.ID)
	return domain.PersonView{
		Person: domain.Person{
			ID:          pid,
			Name:        row.Name,
			DisplayName: stringPtr(row.DisplayName),
			Bio:         stringPtr(row.Bio),
			Local:       row.Local,
			BotAccount:  row.BotAccount,
			Deleted:     row.Deleted,
			Banned:      row.Banned,
			BanExpires:  timePtr(row.BanExpires),
			Published:   time.UnixMicro(row.Published).UTC(),
			Updated:     timePtr(row.Updated),
		},
		Counts: domain.PersonAggregates{
			PersonID:     pid,
			PostCount:    row.PostCount,
			PostScore:    row.PostScore,
			CommentCount: row.CommentCount,
			CommentScore: row.CommentScore,
		},
	}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func timePtr(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	v := time.UnixMicro(n.Int64).UTC()
	return &v
}
