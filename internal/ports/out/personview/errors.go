package personview

import "errors"

// ErrNotFound indicates the requested row does not exist: no person, no
// aggregate row for the person, or (for IsAdmin) no local account.
var ErrNotFound = errors.New("person not found")
