package domain

import "github.com/google/uuid"

// PersonID is an internal identifier for a person record.
// We model it as an opaque string; adapters that need the UUID form parse it.
type PersonID string

// NewPersonID returns a fresh random PersonID.
func NewPersonID() PersonID { return PersonID(uuid.NewString()) }

// Valid reports whether the id is a well-formed UUID.
func (id PersonID) Valid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}
