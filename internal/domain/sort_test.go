package domain

import "testing"

func TestPersonSortFromSortType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   SortType
		want PersonSortType
	}{
		{SortActive, PersonSortCommentScore},
		{SortHot, PersonSortCommentScore},
		{SortControversial, PersonSortCommentScore},
		{SortNew, PersonSortNew},
		{SortNewComments, PersonSortNew},
		{SortMostComments, PersonSortMostComments},
		{SortOld, PersonSortOld},
		{SortTopDay, PersonSortCommentScore},
		{SortTopAll, PersonSortCommentScore},
		{SortScaled, PersonSortCommentScore},
		{SortType(""), PersonSortCommentScore},
		{SortType("SomethingFromTheFuture"), PersonSortCommentScore},
	}
	for _, tc := range cases {
		if got := PersonSortFromSortType(tc.in); got != tc.want {
			t.Fatalf("PersonSortFromSortType(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPersonSortType_String(t *testing.T) {
	t.Parallel()

	if got := PersonSortMostComments.String(); got != "MostComments" {
		t.Fatalf("String()=%q", got)
	}
	if got := PersonSortType(99).String(); got != "CommentScore" {
		t.Fatalf("String() of unknown=%q, want CommentScore", got)
	}
}
