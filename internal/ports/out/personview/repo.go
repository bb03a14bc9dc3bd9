package personview

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/person-views/internal/domain"
)

// OrderKey names the column a listing is ordered by.
type OrderKey int

const (
	// OrderNone leaves rows in storage order.
	OrderNone OrderKey = iota
	OrderPublished
	OrderCommentCount
	OrderCommentScore
	OrderPostScore
	OrderPostCount
)

// Filter restricts which persons a listing returns. Zero value matches everyone.
type Filter struct {
	// AdminOnly keeps persons whose local account has admin=true.
	AdminOnly bool
	// ExcludeDeleted drops soft-deleted persons.
	ExcludeDeleted bool
	// BannedAsOf keeps persons whose ban is in force at the given instant:
	// banned = true AND (ban_expires IS NULL OR ban_expires > BannedAsOf).
	BannedAsOf *time.Time
	// NameLike is a LIKE pattern (see likepattern.Fuzzy) matched
	// case-insensitively against name OR display_name.
	NameLike string
}

type Order struct {
	Key  OrderKey
	Desc bool
}

// Page bounds a listing; offsets and limits are already normalized.
type Page struct {
	Limit  int64
	Offset int64
}

// Listing is a fully composed list request.
type Listing struct {
	Filter Filter
	Order  Order
	// Page is nil for unbounded listings.
	Page *Page
}

// Repository provides read access to person views.
//
// Every view is a person inner-joined with its aggregates and left-joined with
// its local account flags. Persons without an aggregate row never appear.
// Each call uses one connection for one statement; implementations keep no
// state between calls.
type Repository interface {
	Read(ctx context.Context, id domain.PersonID) (domain.PersonView, error)

	// IsAdmin returns the admin flag of the person's local account.
	// It returns ErrNotFound for persons without a local account.
	IsAdmin(ctx context.Context, id domain.PersonID) (bool, error)

	List(ctx context.Context, l Listing) ([]domain.PersonView, error)
}
