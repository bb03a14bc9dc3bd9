package domain

// SortType is the platform-wide sort directive shared by posts, comments,
// communities and persons. Unknown values are valid and are handled by each
// consumer's fallback.
type SortType string

const (
	SortActive         SortType = "Active"
	SortHot            SortType = "Hot"
	SortNew            SortType = "New"
	SortOld            SortType = "Old"
	SortTopDay         SortType = "TopDay"
	SortTopWeek        SortType = "TopWeek"
	SortTopMonth       SortType = "TopMonth"
	SortTopYear        SortType = "TopYear"
	SortTopAll         SortType = "TopAll"
	SortMostComments   SortType = "MostComments"
	SortNewComments    SortType = "NewComments"
	SortTopHour        SortType = "TopHour"
	SortTopSixHour     SortType = "TopSixHour"
	SortTopTwelveHour  SortType = "TopTwelveHour"
	SortTopThreeMonths SortType = "TopThreeMonths"
	SortTopSixMonths   SortType = "TopSixMonths"
	SortTopNineMonths  SortType = "TopNineMonths"
	SortControversial  SortType = "Controversial"
	SortScaled         SortType = "Scaled"
)

// PersonSortType is the subset of orderings meaningful for a person listing.
type PersonSortType int

const (
	PersonSortCommentScore PersonSortType = iota
	PersonSortNew
	PersonSortOld
	PersonSortMostComments
	PersonSortPostScore
	PersonSortPostCount
)

func (s PersonSortType) String() string {
	switch s {
	case PersonSortNew:
		return "New"
	case PersonSortOld:
		return "Old"
	case PersonSortMostComments:
		return "MostComments"
	case PersonSortPostScore:
		return "PostScore"
	case PersonSortPostCount:
		return "PostCount"
	default:
		return "CommentScore"
	}
}

// PersonSortFromSortType collapses a generic sort directive onto a person sort.
// Every directive without a person-specific meaning maps to CommentScore.
func PersonSortFromSortType(s SortType) PersonSortType {
	switch s {
	case SortActive, SortHot, SortControversial:
		return PersonSortCommentScore
	case SortNew, SortNewComments:
		return PersonSortNew
	case SortMostComments:
		return PersonSortMostComments
	case SortOld:
		return PersonSortOld
	default:
		return PersonSortCommentScore
	}
}
