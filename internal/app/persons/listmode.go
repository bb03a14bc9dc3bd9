package persons

import (
	"strings"
	"time"

	"github.com/Overland-East-Bay/person-views/internal/app/pagination"
	"github.com/Overland-East-Bay/person-views/internal/domain"
	"github.com/Overland-East-Bay/person-views/internal/platform/likepattern"
	"github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

// PersonQuery describes an ad-hoc person listing. The zero value lists the
// first page of persons ordered by comment score.
type PersonQuery struct {
	Sort       *domain.SortType
	SearchTerm *string
	Page       *int64
	Limit      *int64
}

// ListMode selects one of the listings the service can produce.
// Implementations are Admins, Banned and Query.
type ListMode interface {
	modeName() string
}

// Admins lists non-deleted administrators, oldest first.
type Admins struct{}

// Banned lists non-deleted persons whose ban is in force. Order is unspecified.
type Banned struct{}

// Query lists persons matching a PersonQuery.
type Query struct {
	PersonQuery
}

func (Admins) modeName() string { return "admins" }
func (Banned) modeName() string { return "banned" }
func (Query) modeName() string  { return "query" }

// compose turns a list mode into a storage listing. now is the instant ban
// expiries are compared against.
func compose(mode ListMode, now time.Time) (personview.Listing, error) {
	switch m := mode.(type) {
	case Admins:
		return personview.Listing{
			Filter: personview.Filter{AdminOnly: true, ExcludeDeleted: true},
			Order:  personview.Order{Key: personview.OrderPublished},
		}, nil

	case Banned:
		asOf := now
		return personview.Listing{
			Filter: personview.Filter{BannedAsOf: &asOf, ExcludeDeleted: true},
		}, nil

	case Query:
		var l personview.Listing
		if m.SearchTerm != nil && strings.TrimSpace(*m.SearchTerm) != "" {
			l.Filter.NameLike = likepattern.Fuzzy(*m.SearchTerm)
		}

		sort := domain.PersonSortCommentScore
		if m.Sort != nil {
			sort = domain.PersonSortFromSortType(*m.Sort)
		}
		l.Order = orderFor(sort)

		limit, offset, err := pagination.LimitAndOffset(m.Page, m.Limit)
		if err != nil {
			return personview.Listing{}, err
		}
		l.Page = &personview.Page{Limit: limit, Offset: offset}
		return l, nil

	default:
		// ListMode is sealed; only a nil mode gets here.
		return compose(Query{}, now)
	}
}

func orderFor(s domain.PersonSortType) personview.Order {
	switch s {
	case domain.PersonSortNew:
		return personview.Order{Key: personview.OrderPublished, Desc: true}
	case domain.PersonSortOld:
		return personview.Order{Key: personview.OrderPublished}
	case domain.PersonSortMostComments:
		return personview.Order{Key: personview.OrderCommentCount, Desc: true}
	case domain.PersonSortPostScore:
		return personview.Order{Key: personview.OrderPostScore, Desc: true}
	case domain.PersonSortPostCount:
		return personview.Order{Key: personview.OrderPostCount, Desc: true}
	default:
		return personview.Order{Key: personview.OrderCommentScore, Desc: true}
	}
}
