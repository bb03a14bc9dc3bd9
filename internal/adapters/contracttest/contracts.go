package contracttest

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/Overland-East-Bay/person-views/internal/domain"
	"github.com/Overland-East-Bay/person-views/internal/platform/likepattern"
	personviewport "github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

type CleanupFunc = func()

// SeedFunc stores a person, its aggregate row (nil for none) and its local
// account flags (nil for a federated person).
type SeedFunc func(ctx context.Context, p domain.Person, counts *domain.PersonAggregates, local *domain.LocalAccountFlags) error

type PersonViewRepoFactory func(t *testing.T) (personviewport.Repository, SeedFunc, CleanupFunc)

// RunPersonViewRepo exercises the read-model behaviours every adapter must share.
func RunPersonViewRepo(t *testing.T, newRepo PersonViewRepoFactory) {
	t.Helper()

	t.Run("Read", func(t *testing.T) { runRead(t, newRepo) })
	t.Run("IsAdmin", func(t *testing.T) { runIsAdmin(t, newRepo) })
	t.Run("Admins", func(t *testing.T) { runAdmins(t, newRepo) })
	t.Run("Banned", func(t *testing.T) { runBanned(t, newRepo) })
	t.Run("Search", func(t *testing.T) { runSearch(t, newRepo) })
	t.Run("Order", func(t *testing.T) { runOrder(t, newRepo) })
	t.Run("Page", func(t *testing.T) { runPage(t, newRepo) })
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func open(t *testing.T, newRepo PersonViewRepoFactory) (personviewport.Repository, SeedFunc) {
	t.Helper()
	repo, seed, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	return repo, seed
}

type fixture struct {
	p      domain.Person
	counts *domain.PersonAggregates
	local  *domain.LocalAccountFlags
}

func person(name string, published time.Time) domain.Person {
	return domain.Person{
		ID:        domain.NewPersonID(),
		Name:      name,
		Local:     true,
		Published: published,
	}
}

func counts(postCount, postScore, commentCount, commentScore int64) *domain.PersonAggregates {
	return &domain.PersonAggregates{
		PostCount:    postCount,
		PostScore:    postScore,
		CommentCount: commentCount,
		CommentScore: commentScore,
	}
}

func seedAll(t *testing.T, seed SeedFunc, fs ...fixture) {
	t.Helper()
	for _, f := range fs {
		if err := seed(context.Background(), f.p, f.counts, f.local); err != nil {
			t.Fatalf("seed %q: %v", f.p.Name, err)
		}
	}
}

func names(vs []domain.PersonView) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Person.Name)
	}
	return out
}

func sortedNames(vs []domain.PersonView) []string {
	out := names(vs)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func runRead(t *testing.T, newRepo PersonViewRepoFactory) {
	ctx := context.Background()
	repo, seed := open(t, newRepo)

	alice := person("alice", base)
	alice.DisplayName = strPtr("Alice A.")
	alice.Bio = strPtr("hello")
	alice.BotAccount = true
	alice.Banned = true
	alice.BanExpires = timePtr(base.Add(48 * time.Hour))
	alice.Updated = timePtr(base.Add(time.Hour))
	noCounts := person("ghost", base)

	seedAll(t, seed,
		fixture{p: alice, counts: counts(1, 2, 3, 4), local: &domain.LocalAccountFlags{Admin: true}},
		fixture{p: noCounts},
	)

	got, err := repo.Read(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	gp := got.Person
	if gp.ID != alice.ID || gp.Name != "alice" || !gp.Local || !gp.BotAccount || !gp.Banned || gp.Deleted {
		t.Fatalf("unexpected person: %+v", gp)
	}
	if gp.DisplayName == nil || *gp.DisplayName != "Alice A." || gp.Bio == nil || *gp.Bio != "hello" {
		t.Fatalf("unexpected optional text fields: %+v", gp)
	}
	if !gp.Published.Equal(base) {
		t.Fatalf("published=%v, want %v", gp.Published, base)
	}
	if gp.BanExpires == nil || !gp.BanExpires.Equal(*alice.BanExpires) {
		t.Fatalf("banExpires=%v, want %v", gp.BanExpires, alice.BanExpires)
	}
	if gp.Updated == nil || !gp.Updated.Equal(*alice.Updated) {
		t.Fatalf("updated=%v, want %v", gp.Updated, alice.Updated)
	}
	c := got.Counts
	if c.PersonID != alice.ID || c.PostCount != 1 || c.PostScore != 2 || c.CommentCount != 3 || c.CommentScore != 4 {
		t.Fatalf("unexpected counts: %+v", c)
	}

	if _, err := repo.Read(ctx, noCounts.ID); !errors.Is(err, personviewport.ErrNotFound) {
		t.Fatalf("Read without aggregates err=%v, want ErrNotFound", err)
	}
	if _, err := repo.Read(ctx, domain.NewPersonID()); !errors.Is(err, personviewport.ErrNotFound) {
		t.Fatalf("Read unknown err=%v, want ErrNotFound", err)
	}
}

func runIsAdmin(t *testing.T, newRepo PersonViewRepoFactory) {
	ctx := context.Background()
	repo, seed := open(t, newRepo)

	admin := person("admin", base)
	user := person("user", base)
	remote := person("remote", base)
	remote.Local = false
	// Admin lookups do not depend on the aggregate row.
	noCounts := person("fresh-admin", base)

	seedAll(t, seed,
		fixture{p: admin, counts: counts(0, 0, 0, 0), local: &domain.LocalAccountFlags{Admin: true}},
		fixture{p: user, counts: counts(0, 0, 0, 0), local: &domain.LocalAccountFlags{Admin: false}},
		fixture{p: remote, counts: counts(0, 0, 0, 0)},
		fixture{p: noCounts, local: &domain.LocalAccountFlags{Admin: true}},
	)

	if ok, err := repo.IsAdmin(ctx, admin.ID); err != nil || !ok {
		t.Fatalf("IsAdmin(admin)=%v err=%v, want true", ok, err)
	}
	if ok, err := repo.IsAdmin(ctx, user.ID); err != nil || ok {
		t.Fatalf("IsAdmin(user)=%v err=%v, want false", ok, err)
	}
	if ok, err := repo.IsAdmin(ctx, noCounts.ID); err != nil || !ok {
		t.Fatalf("IsAdmin(fresh-admin)=%v err=%v, want true", ok, err)
	}
	if _, err := repo.IsAdmin(ctx, remote.ID); !errors.Is(err, personviewport.ErrNotFound) {
		t.Fatalf("IsAdmin(remote) err=%v, want ErrNotFound", err)
	}
	if _, err := repo.IsAdmin(ctx, domain.NewPersonID()); !errors.Is(err, personviewport.ErrNotFound) {
		t.Fatalf("IsAdmin(unknown) err=%v, want ErrNotFound", err)
	}
}

func runAdmins(t *testing.T, newRepo PersonViewRepoFactory) {
	ctx := context.Background()
	repo, seed := open(t, newRepo)

	newest := person("newest-admin", base.Add(3*time.Hour))
	oldest := person("oldest-admin", base.Add(1*time.Hour))
	middle := person("middle-admin", base.Add(2*time.Hour))
	deleted := person("deleted-admin", base)
	deleted.Deleted = true
	plain := person("plain", base)
	remote := person("remote", base)
	remote.Local = false

	isAdmin := &domain.LocalAccountFlags{Admin: true}
	seedAll(t, seed,
		fixture{p: newest, counts: counts(0, 0, 0, 0), local: isAdmin},
		fixture{p: oldest, counts: counts(0, 0, 0, 0), local: isAdmin},
		fixture{p: middle, counts: counts(0, 0, 0, 0), local: isAdmin},
		fixture{p: deleted, counts: counts(0, 0, 0, 0), local: isAdmin},
		fixture{p: plain, counts: counts(0, 0, 0, 0), local: &domain.LocalAccountFlags{}},
		fixture{p: remote, counts: counts(0, 0, 0, 0)},
	)

	got, err := repo.List(ctx, personviewport.Listing{
		Filter: personviewport.Filter{AdminOnly: true, ExcludeDeleted: true},
		Order:  personviewport.Order{Key: personviewport.OrderPublished},
	})
	if err != nil {
		t.Fatalf("List admins: %v", err)
	}
	want := []string{"oldest-admin", "middle-admin", "newest-admin"}
	if !equalStrings(names(got), want) {
		t.Fatalf("admins=%v, want %v", names(got), want)
	}
}

func runBanned(t *testing.T, newRepo PersonViewRepoFactory) {
	ctx := context.Background()
	repo, seed := open(t, newRepo)

	now := base.Add(24 * time.Hour)

	permanent := person("permanent", base)
	permanent.Banned = true
	expired := person("expired", base)
	expired.Banned = true
	expired.BanExpires = timePtr(now.Add(-24 * time.Hour))
	active := person("active", base)
	active.Banned = true
	active.BanExpires = timePtr(now.Add(time.Hour))
	deleted := person("deleted", base)
	deleted.Banned = true
	deleted.Deleted = true
	free := person("free", base)
	remote := person("remote", base)
	remote.Local = false
	remote.Banned = true

	seedAll(t, seed,
		fixture{p: permanent, counts: counts(0, 0, 0, 0)},
		fixture{p: expired, counts: counts(0, 0, 0, 0)},
		fixture{p: active, counts: counts(0, 0, 0, 0)},
		fixture{p: deleted, counts: counts(0, 0, 0, 0)},
		fixture{p: free, counts: counts(0, 0, 0, 0)},
		fixture{p: remote, counts: counts(0, 0, 0, 0)},
	)

	got, err := repo.List(ctx, personviewport.Listing{
		Filter: personviewport.Filter{BannedAsOf: &now, ExcludeDeleted: true},
	})
	if err != nil {
		t.Fatalf("List banned: %v", err)
	}
	want := []string{"active", "permanent", "remote"}
	if !equalStrings(sortedNames(got), want) {
		t.Fatalf("banned=%v, want %v", sortedNames(got), want)
	}

	// Once the temporary ban lapses it drops out.
	later := now.Add(2 * time.Hour)
	got, err = repo.List(ctx, personviewport.Listing{
		Filter: personviewport.Filter{BannedAsOf: &later, ExcludeDeleted: true},
	})
	if err != nil {
		t.Fatalf("List banned later: %v", err)
	}
	want = []string{"permanent", "remote"}
	if !equalStrings(sortedNames(got), want) {
		t.Fatalf("banned later=%v, want %v", sortedNames(got), want)
	}
}

func runSearch(t *testing.T, newRepo PersonViewRepoFactory) {
	ctx := context.Background()
	repo, seed := open(t, newRepo)

	byName := person("MaryJane", base)
	byDisplay := person("mj42", base)
	byDisplay.DisplayName = strPtr("Mary Jones")
	other := person("bob", base)
	percent := person("100%club", base)
	hundred := person("100xclub", base)

	seedAll(t, seed,
		fixture{p: byName, counts: counts(0, 0, 0, 0)},
		fixture{p: byDisplay, counts: counts(0, 0, 0, 0)},
		fixture{p: other, counts: counts(0, 0, 0, 0)},
		fixture{p: percent, counts: counts(0, 0, 0, 0)},
		fixture{p: hundred, counts: counts(0, 0, 0, 0)},
	)

	search := func(term string) []string {
		t.Helper()
		got, err := repo.List(ctx, personviewport.Listing{
			Filter: personviewport.Filter{NameLike: likepattern.Fuzzy(term)},
		})
		if err != nil {
			t.Fatalf("List search %q: %v", term, err)
		}
		return sortedNames(got)
	}

	if got, want := search("MARY"), []string{"MaryJane", "mj42"}; !equalStrings(got, want) {
		t.Fatalf("search MARY=%v, want %v", got, want)
	}
	if got, want := search("jones"), []string{"mj42"}; !equalStrings(got, want) {
		t.Fatalf("search jones=%v, want %v", got, want)
	}
	if got, want := search("0%c"), []string{"100%club"}; !equalStrings(got, want) {
		t.Fatalf("search 0%%c=%v, want %v", got, want)
	}
	if got := search("zzz"); len(got) != 0 {
		t.Fatalf("search zzz=%v, want none", got)
	}
}

// RunUnicodeSearch checks that name search folds case beyond ASCII. Postgres
// only passes it under a Unicode-aware collation, so it is opt-in per adapter.
func RunUnicodeSearch(t *testing.T, newRepo PersonViewRepoFactory) {
	t.Helper()
	ctx := context.Background()
	repo, seed := open(t, newRepo)

	emile := person("Émile", base)
	orsted := person("x", base)
	orsted.DisplayName = strPtr("ØRSTED")
	seedAll(t, seed,
		fixture{p: emile, counts: counts(0, 0, 0, 0)},
		fixture{p: orsted, counts: counts(0, 0, 0, 0)},
		fixture{p: person("emily", base), counts: counts(0, 0, 0, 0)},
	)

	for term, want := range map[string][]string{
		"émile":  {"Émile"},
		"ÉMI":    {"Émile"},
		"ørsted": {"x"},
	} {
		got, err := repo.List(ctx, personviewport.Listing{
			Filter: personviewport.Filter{NameLike: likepattern.Fuzzy(term)},
		})
		if err != nil {
			t.Fatalf("List search %q: %v", term, err)
		}
		if names := sortedNames(got); !equalStrings(names, want) {
			t.Fatalf("search %q=%v, want %v", term, names, want)
		}
	}
}

func runOrder(t *testing.T, newRepo PersonViewRepoFactory) {
	ctx := context.Background()
	repo, seed := open(t, newRepo)

	a := person("a", base.Add(1*time.Hour))
	b := person("b", base.Add(2*time.Hour))
	c := person("c", base.Add(3*time.Hour))

	seedAll(t, seed,
		fixture{p: a, counts: counts(30, 10, 200, 3)},
		fixture{p: b, counts: counts(10, 30, 100, 1)},
		fixture{p: c, counts: counts(20, 20, 300, 2)},
	)

	cases := []struct {
		order personviewport.Order
		want  []string
	}{
		{personviewport.Order{Key: personviewport.OrderPublished, Desc: true}, []string{"c", "b", "a"}},
		{personviewport.Order{Key: personviewport.OrderPublished}, []string{"a", "b", "c"}},
		{personviewport.Order{Key: personviewport.OrderCommentCount, Desc: true}, []string{"c", "a", "b"}},
		{personviewport.Order{Key: personviewport.OrderCommentScore, Desc: true}, []string{"a", "c", "b"}},
		{personviewport.Order{Key: personviewport.OrderPostScore, Desc: true}, []string{"b", "c", "a"}},
		{personviewport.Order{Key: personviewport.OrderPostCount, Desc: true}, []string{"a", "c", "b"}},
	}
	for _, tc := range cases {
		got, err := repo.List(ctx, personviewport.Listing{Order: tc.order})
		if err != nil {
			t.Fatalf("List order %+v: %v", tc.order, err)
		}
		if !equalStrings(names(got), tc.want) {
			t.Fatalf("order %+v=%v, want %v", tc.order, names(got), tc.want)
		}
	}
}

func runPage(t *testing.T, newRepo PersonViewRepoFactory) {
	ctx := context.Background()
	repo, seed := open(t, newRepo)

	all := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		p := person(string(rune('A'+i)), base.Add(time.Duration(i)*time.Minute))
		all = append(all, p.Name)
		seedAll(t, seed, fixture{p: p, counts: counts(0, 0, 0, 0)})
	}

	list := func(limit, offset int64) []string {
		t.Helper()
		got, err := repo.List(ctx, personviewport.Listing{
			Order: personviewport.Order{Key: personviewport.OrderPublished},
			Page:  &personviewport.Page{Limit: limit, Offset: offset},
		})
		if err != nil {
			t.Fatalf("List page: %v", err)
		}
		return names(got)
	}

	if got, want := list(10, 10), all[10:20]; !equalStrings(got, want) {
		t.Fatalf("page 2=%v, want %v", got, want)
	}
	if got, want := list(10, 20), all[20:]; !equalStrings(got, want) {
		t.Fatalf("page 3=%v, want %v", got, want)
	}
	if got := list(10, 30); len(got) != 0 {
		t.Fatalf("page past end=%v, want none", got)
	}
}
