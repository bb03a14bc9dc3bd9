// Package pagination normalizes page/limit request parameters.
package pagination

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultLimit is used when the caller does not choose a page size.
	DefaultLimit int64 = 10
	// MaxLimit is the largest page size a caller may request.
	MaxLimit int64 = 50
)

// ErrInvalidPagination is matched by every error LimitAndOffset returns.
var ErrInvalidPagination = errors.New("invalid pagination")

// Error describes a rejected pagination parameter.
type Error struct {
	Field  string
	Value  int64
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid pagination: %s=%d %s", e.Field, e.Value, e.Reason)
}

func (e *Error) Is(target error) bool { return target == ErrInvalidPagination }

// LimitAndOffset converts an optional 1-based page and optional page size into
// a SQL limit and offset. A nil page means the first page; a nil limit means
// DefaultLimit.
func LimitAndOffset(page, limit *int64) (int64, int64, error) {
	p := int64(1)
	if page != nil {
		if *page < 1 {
			return 0, 0, &Error{Field: "page", Value: *page, Reason: "must be >= 1"}
		}
		p = *page
	}

	l := DefaultLimit
	if limit != nil {
		if *limit < 1 || *limit > MaxLimit {
			return 0, 0, &Error{Field: "limit", Value: *limit, Reason: fmt.Sprintf("must be between 1 and %d", MaxLimit)}
		}
		l = *limit
	}

	if p-1 > math.MaxInt64/l {
		return 0, 0, &Error{Field: "page", Value: p, Reason: "is too large"}
	}
	return l, l * (p - 1), nil
}
