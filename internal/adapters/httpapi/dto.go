package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/Overland-East-Bay/person-views/internal/domain"
)

// PersonCounts is the JSON shape of person aggregates.
type PersonCounts struct {
	PostCount    int64 `json:"postCount"`
	PostScore    int64 `json:"postScore"`
	CommentCount int64 `json:"commentCount"`
	CommentScore int64 `json:"commentScore"`
}

// PersonView is the JSON shape of a person view. Optional fields are sent as
// explicit nulls when unset.
type PersonView struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	DisplayName nullable.Nullable[string]    `json:"displayName"`
	Bio         nullable.Nullable[string]    `json:"bio"`
	Local       bool                         `json:"local"`
	BotAccount  bool                         `json:"botAccount"`
	Deleted     bool                         `json:"deleted"`
	Banned      bool                         `json:"banned"`
	BanExpires  nullable.Nullable[time.Time] `json:"banExpires"`
	Published   time.Time                    `json:"published"`
	Updated     nullable.Nullable[time.Time] `json:"updated"`
	Counts      PersonCounts                 `json:"counts"`
}

type PersonList struct {
	Persons []PersonView `json:"persons"`
}

type AdminStatus struct {
	Admin bool `json:"admin"`
}

type ErrorBody struct {
	Code      string                    `json:"code"`
	Message   string                    `json:"message"`
	RequestID nullable.Nullable[string] `json:"requestId,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func toNullable[T any](p *T) nullable.Nullable[T] {
	if p == nil {
		return nullable.NewNullNullable[T]()
	}
	return nullable.NewNullableWithValue(*p)
}

func toPersonView(v domain.PersonView) PersonView {
	p := v.Person
	return PersonView{
		ID:          string(p.ID),
		Name:        p.Name,
		DisplayName: toNullable(p.DisplayName),
		Bio:         toNullable(p.Bio),
		Local:       p.Local,
		BotAccount:  p.BotAccount,
		Deleted:     p.Deleted,
		Banned:      p.Banned,
		BanExpires:  toNullable(p.BanExpires),
		Published:   p.Published,
		Updated:     toNullable(p.Updated),
		Counts: PersonCounts{
			PostCount:    v.Counts.PostCount,
			PostScore:    v.Counts.PostScore,
			CommentCount: v.Counts.CommentCount,
			CommentScore: v.Counts.CommentScore,
		},
	}
}

func toPersonList(vs []domain.PersonView) PersonList {
	out := make([]PersonView, 0, len(vs))
	for _, v := range vs {
		out = append(out, toPersonView(v))
	}
	return PersonList{Persons: out}
}
