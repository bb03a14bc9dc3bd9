package personview

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Overland-East-Bay/person-views/internal/adapters/sqlview"
	"github.com/Overland-East-Bay/person-views/internal/domain"
	"github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

// Repo is a Postgres implementation of personview.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Read(ctx context.Context, id domain.PersonID) (domain.PersonView, error) {
	if r.pool == nil {
		return domain.PersonView{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.PersonView{}, personview.ErrNotFound
	}
	return scanView(r.pool.QueryRow(ctx, sqlview.Postgres.Read(), uid))
}

func (r *Repo) IsAdmin(ctx context.Context, id domain.PersonID) (bool, error) {
	if r.pool == nil {
		return false, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return false, personview.ErrNotFound
	}
	var admin bool
	if err := r.pool.QueryRow(ctx, sqlview.Postgres.IsAdmin(), uid).Scan(&admin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, personview.ErrNotFound
		}
		return false, err
	}
	return admin, nil
}

func (r *Repo) List(ctx context.Context, l personview.Listing) ([]domain.PersonView, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	query, args := sqlview.Postgres.List(l)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.PersonView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanView(row interface {
	Scan(dest ...any) error
}) (domain.PersonView, error) {
	var (
		id          uuid.UUID
		name        string
		displayName *string
		bio         *string
		local       bool
		botAccount  bool
		deleted     bool
		banned      bool
		banExpires  *time.Time
		published   time.Time
		updated     *time.Time

		postCount    int64
		postScore    int64
		commentCount int64
		commentScore int64
	)
	if err := row.Scan(
		&id,
		&name,
		&displayName,
		&bio,
		&local,
		&botAccount,
		&deleted,
		&banned,
		&banExpires,
		&published,
		&updated,
		&postCount,
		&postScore,
		&commentCount,
		&commentScore,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PersonView{}, personview.ErrNotFound
		}
		return domain.PersonView{}, err
	}

	pid := domain.PersonID(id.String())
	return domain.PersonView{
		Person: domain.Person{
			ID:          pid,
			Name:        name,
			DisplayName: displayName,
			Bio:         bio,
			Local:       local,
			BotAccount:  botAccount,
			Deleted:     deleted,
			Banned:      banned,
			BanExpires:  utcPtr(banExpires),
			Published:   published.UTC(),
			Updated:     utcPtr(updated),
		},
		Counts: domain.PersonAggregates{
			PersonID:     pid,
			PostCount:    postCount,
			PostScore:    postScore,
			CommentCount: commentCount,
			CommentScore: commentScore,
		},
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
