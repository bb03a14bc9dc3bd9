// Package sqlview renders person view reads and listings as SQL.
//
// All read paths share one join shape: person inner-joined with
// person_aggregates and left-joined with local_user. Dialects differ only in
// placeholders, case-insensitive matching and timestamp encoding.
package sqlview

import (
	"fmt"
	"strings"
	"time"

	"github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

// Columns is the projection every person view query selects, in scan order.
const Columns = `
	p.id,
	p.name,
	p.display_name,
	p.bio,
	p.local,
	p.bot_account,
	p.deleted,
	p.banned,
	p.ban_expires,
	p.published,
	p.updated,
	pa.post_count,
	pa.post_score,
	pa.comment_count,
	pa.comment_score`

const joins = `
	FROM person p
	INNER JOIN person_aggregates pa ON pa.person_id = p.id
	LEFT JOIN local_user lu ON lu.person_id = p.id`

// Dialect captures the SQL differences between supported engines.
type Dialect struct {
	Name string
	// Placeholder returns the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// ILike is a case-insensitive LIKE predicate over a column and a bound
	// pattern that uses '\' as its escape character.
	ILike func(column, param string) string
	// Time encodes an instant as a bind argument.
	Time func(t time.Time) any
}

var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	ILike:       func(column, param string) string { return column + " ILIKE " + param },
	Time:        func(t time.Time) any { return t.UTC() },
}

// SQLite stores timestamps as unix microseconds. LIKE only folds ASCII, so
// both sides go through the casefold function the sqlite adapter registers.
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
	ILike: func(column, param string) string {
		return `casefold(` + column + `) LIKE casefold(` + param + `) ESCAPE '\'`
	},
	Time: func(t time.Time) any { return t.UTC().UnixMicro() },
}

// Read selects one person view by id.
func (d Dialect) Read() string {
	return "SELECT" + Columns + joins + "\n\tWHERE p.id = " + d.Placeholder(1)
}

// IsAdmin selects the admin flag of a person's local account. Aggregates are
// not joined; a person without a local account yields no row.
func (d Dialect) IsAdmin() string {
	return `SELECT lu.admin
	FROM person p
	INNER JOIN local_user lu ON lu.person_id = p.id
	WHERE p.id = ` + d.Placeholder(1)
}

var orderColumns = map[personview.OrderKey]string{
	personview.OrderPublished:    "p.published",
	personview.OrderCommentCount: "pa.comment_count",
	personview.OrderCommentScore: "pa.comment_score",
	personview.OrderPostScore:    "pa.post_score",
	personview.OrderPostCount:    "pa.post_count",
}

// List renders a listing as a statement and its bind arguments.
func (d Dialect) List(l personview.Listing) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, 4)
	bind := func(v any) string {
		args = append(args, v)
		return d.Placeholder(len(args))
	}

	sb.WriteString("SELECT")
	sb.WriteString(Columns)
	sb.WriteString(joins)

	where := make([]string, 0, 4)
	f := l.Filter
	if f.AdminOnly {
		where = append(where, "lu.admin = true")
	}
	if f.BannedAsOf != nil {
		where = append(where, fmt.Sprintf("p.banned = true AND (p.ban_expires IS NULL OR p.ban_expires > %s)", bind(d.Time(*f.BannedAsOf))))
	}
	if f.ExcludeDeleted {
		where = append(where, "p.deleted = false")
	}
	if f.NameLike != "" {
		param := bind(f.NameLike)
		where = append(where, "("+d.ILike("p.name", param)+" OR "+d.ILike("p.display_name", d.reuse(param, f.NameLike, bind))+")")
	}
	if len(where) > 0 {
		sb.WriteString("\n\tWHERE ")
		sb.WriteString(strings.Join(where, "\n\t  AND "))
	}

	if col, ok := orderColumns[l.Order.Key]; ok {
		sb.WriteString("\n\tORDER BY ")
		sb.WriteString(col)
		if l.Order.Desc {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}

	if l.Page != nil {
		sb.WriteString("\n\tLIMIT ")
		sb.WriteString(bind(l.Page.Limit))
		sb.WriteString(" OFFSET ")
		sb.WriteString(bind(l.Page.Offset))
	}
	return sb.String(), args
}

// reuse returns param again for numbered placeholders and binds v a second
// time for positional ones.
func (d Dialect) reuse(param string, v any, bind func(any) string) string {
	if d.Placeholder(1) == d.Placeholder(2) {
		return bind(v)
	}
	return param
}
