package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	memclock "github.com/Overland-East-Bay/person-views/internal/adapters/memory/clock"
	mempersonview "github.com/Overland-East-Bay/person-views/internal/adapters/memory/personview"
	"github.com/Overland-East-Bay/person-views/internal/app/persons"
	"github.com/Overland-East-Bay/person-views/internal/domain"
	"github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	handler http.Handler
	reg     *prometheus.Registry
	alice   domain.Person
	carol   domain.Person
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repo := mempersonview.NewRepo()
	bio := "rides a yellow bike"
	yesterday := now.Add(-24 * time.Hour)
	alice := domain.Person{ID: domain.NewPersonID(), Name: "alice", Bio: &bio, Local: true, Published: now.Add(-72 * time.Hour)}
	bob := domain.Person{ID: domain.NewPersonID(), Name: "bob", Local: true, Banned: true, BanExpires: &yesterday, Published: now.Add(-48 * time.Hour)}
	carol := domain.Person{ID: domain.NewPersonID(), Name: "carol", Banned: true, Published: now.Add(-24 * time.Hour)}

	if err := repo.Seed(ctx, alice, &domain.PersonAggregates{PostCount: 2, CommentScore: 5}, &domain.LocalAccountFlags{Admin: true}); err != nil {
		t.Fatalf("seed alice: %v", err)
	}
	if err := repo.Seed(ctx, bob, &domain.PersonAggregates{CommentScore: 9}, &domain.LocalAccountFlags{}); err != nil {
		t.Fatalf("seed bob: %v", err)
	}
	if err := repo.Seed(ctx, carol, &domain.PersonAggregates{CommentScore: 1}, nil); err != nil {
		t.Fatalf("seed carol: %v", err)
	}

	return newFixtureWithRepo(t, repo, alice, carol)
}

func newFixtureWithRepo(t *testing.T, repo personview.Repository, alice, carol domain.Person) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := persons.NewService(repo, memclock.NewManualClock(now), nil)
	h := NewRouterWithOptions(NewServer(svc, nil), RouterOptions{Registerer: reg, Gatherer: reg})
	return &fixture{handler: h, reg: reg, alice: alice, carol: carol}
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body=%q err=%v", rr.Body.String(), err)
	}
	return v
}

func names(l PersonList) []string {
	out := make([]string, 0, len(l.Persons))
	for _, p := range l.Persons {
		out = append(out, p.Name)
	}
	return out
}

func TestGetPerson(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rr := f.get(t, "/persons/"+string(f.alice.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	v := decode[PersonView](t, rr)
	if v.Name != "alice" || v.Counts.PostCount != 2 || v.Counts.CommentScore != 5 {
		t.Fatalf("view=%+v", v)
	}
	if bio, err := v.Bio.Get(); err != nil || bio != "rides a yellow bike" {
		t.Fatalf("bio=%q err=%v", bio, err)
	}
	if !v.DisplayName.IsNull() {
		t.Fatalf("displayName should be null")
	}
	if !strings.Contains(rr.Body.String(), `"displayName":null`) {
		t.Fatalf("body=%s, want explicit null displayName", rr.Body.String())
	}
}

func TestGetPerson_NotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rr := f.get(t, "/persons/"+string(domain.NewPersonID()))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	er := decode[ErrorResponse](t, rr)
	if er.Error.Code != persons.CodeNotFound {
		t.Fatalf("code=%q", er.Error.Code)
	}
	if rid, err := er.Error.RequestID.Get(); err != nil || rid == "" {
		t.Fatalf("requestId=%q err=%v", rid, err)
	}
}

func TestGetPersonAdmin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rr := f.get(t, "/persons/"+string(f.alice.ID)+"/admin")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if st := decode[AdminStatus](t, rr); !st.Admin {
		t.Fatalf("admin=false, want true")
	}

	// carol has no local account
	rr = f.get(t, "/persons/"+string(f.carol.ID)+"/admin")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestListAdminsAndBanned(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rr := f.get(t, "/admins")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := names(decode[PersonList](t, rr)); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("admins=%v", got)
	}

	rr = f.get(t, "/banned")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := names(decode[PersonList](t, rr)); len(got) != 1 || got[0] != "carol" {
		t.Fatalf("banned=%v", got)
	}
}

func TestListPersons(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "default sort", path: "/persons", want: []string{"bob", "alice", "carol"}},
		{name: "new", path: "/persons?sort=New", want: []string{"carol", "bob", "alice"}},
		{name: "old", path: "/persons?sort=Old", want: []string{"alice", "bob", "carol"}},
		{name: "search", path: "/persons?sort=New&q=a&page=1&limit=1", want: []string{"carol"}},
		{name: "second page", path: "/persons?sort=New&q=a&page=2&limit=1", want: []string{"alice"}},
		{name: "blank search", path: "/persons?sort=Old&q=", want: []string{"alice", "bob", "carol"}},
		{name: "no match", path: "/persons?q=zed", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.get(t, tt.path)
			if rr.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
			}
			got := names(decode[PersonList](t, rr))
			if len(got) != len(tt.want) {
				t.Fatalf("GET %s = %v, want %v", tt.path, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("GET %s = %v, want %v", tt.path, got, tt.want)
				}
			}
		})
	}
}

func TestListPersons_BadRequests(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		path string
		code string
	}{
		{path: "/persons?limit=abc", code: "INVALID_PARAMETER"},
		{path: "/persons?limit=51", code: persons.CodeInvalidPagination},
		{path: "/persons?page=0", code: persons.CodeInvalidPagination},
		{path: "/persons?page=4611686018427387905&limit=10", code: persons.CodeInvalidPagination},
	}
	for _, tt := range tests {
		rr := f.get(t, tt.path)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("GET %s status=%d body=%s", tt.path, rr.Code, rr.Body.String())
		}
		if er := decode[ErrorResponse](t, rr); er.Error.Code != tt.code {
			t.Fatalf("GET %s code=%q, want %q", tt.path, er.Error.Code, tt.code)
		}
	}
}

type brokenRepo struct{}

var errBroken = errors.New("connection reset")

func (brokenRepo) Read(context.Context, domain.PersonID) (domain.PersonView, error) {
	return domain.PersonView{}, errBroken
}
func (brokenRepo) IsAdmin(context.Context, domain.PersonID) (bool, error) { return false, errBroken }
func (brokenRepo) List(context.Context, personview.Listing) ([]domain.PersonView, error) {
	return nil, errBroken
}

func TestStorageErrorsAreOpaque(t *testing.T) {
	t.Parallel()
	f := newFixtureWithRepo(t, brokenRepo{}, domain.Person{}, domain.Person{})

	rr := f.get(t, "/banned")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "connection reset") {
		t.Fatalf("body leaks storage error: %s", rr.Body.String())
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	if rr := f.get(t, "/healthz"); rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz status=%d body=%q", rr.Code, rr.Body.String())
	}
	_ = f.get(t, "/admins")
	_ = f.get(t, "/persons/"+string(f.alice.ID))

	if n, err := testutil.GatherAndCount(f.reg, "personviews_http_requests_total"); err != nil || n < 2 {
		t.Fatalf("requests_total series=%d err=%v, want >= 2", n, err)
	}

	rr := f.get(t, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `route="/persons/{personID}"`) {
		t.Fatalf("metrics missing route pattern label:\n%s", rr.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rr := f.get(t, "/nope")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
	if er := decode[ErrorResponse](t, rr); er.Error.Code != "NOT_FOUND" {
		t.Fatalf("code=%q", er.Error.Code)
	}
}
