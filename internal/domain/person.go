package domain

import "time"

// Person is the identity record of a user account, local or federated.
type Person struct {
	ID   PersonID
	Name string
	// DisplayName is an optional human label; nil means unset.
	DisplayName *string
	Bio         *string

	// Local is true for accounts hosted on this instance.
	Local      bool
	BotAccount bool

	Deleted bool
	Banned  bool
	// BanExpires is nil for a permanent ban.
	BanExpires *time.Time

	Published time.Time
	Updated   *time.Time
}

// PersonAggregates holds counters derived from a person's activity.
// Exactly one row exists per person; it is maintained outside this service.
type PersonAggregates struct {
	PersonID     PersonID
	PostCount    int64
	PostScore    int64
	CommentCount int64
	CommentScore int64
}

// LocalAccountFlags carries privilege flags of a local account.
// Federated persons have none.
type LocalAccountFlags struct {
	PersonID PersonID
	Admin    bool
}

// PersonView is a person joined with its aggregates.
type PersonView struct {
	Person Person
	Counts PersonAggregates
}

// BannedAt reports whether the ban on p is in force at now.
// A ban with an expiry at or before now has lapsed.
func (p Person) BannedAt(now time.Time) bool {
	if !p.Banned {
		return false
	}
	return p.BanExpires == nil || p.BanExpires.After(now)
}
