package personview

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Overland-East-Bay/person-views/internal/domain"
	"github.com/Overland-East-Bay/person-views/internal/platform/likepattern"
	"github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

// Repo is an in-memory implementation of personview.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	persons map[domain.PersonID]domain.Person
	counts  map[domain.PersonID]domain.PersonAggregates
	locals  map[domain.PersonID]domain.LocalAccountFlags
}

func NewRepo() *Repo {
	return &Repo{
		persons: make(map[domain.PersonID]domain.Person),
		counts:  make(map[domain.PersonID]domain.PersonAggregates),
		locals:  make(map[domain.PersonID]domain.LocalAccountFlags),
	}
}

// Seed stores a person with its optional aggregate row and local account.
// Existing rows for the same id are replaced.
func (r *Repo) Seed(ctx context.Context, p domain.Person, counts *domain.PersonAggregates, local *domain.LocalAccountFlags) error {
	_ = ctx
	if p.ID == "" {
		return errors.New("person id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.persons[p.ID] = clonePerson(p)
	delete(r.counts, p.ID)
	delete(r.locals, p.ID)
	if counts != nil {
		c := *counts
		c.PersonID = p.ID
		r.counts[p.ID] = c
	}
	if local != nil {
		f := *local
		f.PersonID = p.ID
		r.locals[p.ID] = f
	}
	return nil
}

func (r *Repo) Read(ctx context.Context, id domain.PersonID) (domain.PersonView, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.viewLocked(id)
	if !ok {
		return domain.PersonView{}, personview.ErrNotFound
	}
	return v, nil
}

func (r *Repo) IsAdmin(ctx context.Context, id domain.PersonID) (bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.persons[id]; !ok {
		return false, personview.ErrNotFound
	}
	f, ok := r.locals[id]
	if !ok {
		return false, personview.ErrNotFound
	}
	return f.Admin, nil
}

func (r *Repo) List(ctx context.Context, l personview.Listing) ([]domain.PersonView, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PersonView, 0)
	for id := range r.persons {
		v, ok := r.viewLocked(id)
		if !ok {
			continue
		}
		if !r.matchesLocked(v.Person, l.Filter) {
			continue
		}
		out = append(out, v)
	}

	sortViews(out, l.Order)

	if l.Page != nil {
		out = page(out, *l.Page)
	}
	return out, nil
}

// viewLocked joins a person with its aggregates; persons without an
// aggregate row have no view.
func (r *Repo) viewLocked(id domain.PersonID) (domain.PersonView, bool) {
	p, ok := r.persons[id]
	if !ok {
		return domain.PersonView{}, false
	}
	c, ok := r.counts[id]
	if !ok {
		return domain.PersonView{}, false
	}
	return domain.PersonView{Person: clonePerson(p), Counts: c}, true
}

func (r *Repo) matchesLocked(p domain.Person, f personview.Filter) bool {
	if f.AdminOnly {
		local, ok := r.locals[p.ID]
		if !ok || !local.Admin {
			return false
		}
	}
	if f.ExcludeDeleted && p.Deleted {
		return false
	}
	if f.BannedAsOf != nil && !p.BannedAt(*f.BannedAsOf) {
		return false
	}
	if f.NameLike != "" {
		byName := likepattern.MatchFold(f.NameLike, p.Name)
		byDisplay := p.DisplayName != nil && likepattern.MatchFold(f.NameLike, *p.DisplayName)
		if !byName && !byDisplay {
			return false
		}
	}
	return true
}

func sortViews(vs []domain.PersonView, o personview.Order) {
	if o.Key == personview.OrderNone {
		return
	}
	key := func(v domain.PersonView) int64 {
		switch o.Key {
		case personview.OrderCommentCount:
			return v.Counts.CommentCount
		case personview.OrderCommentScore:
			return v.Counts.CommentScore
		case personview.OrderPostScore:
			return v.Counts.PostScore
		case personview.OrderPostCount:
			return v.Counts.PostCount
		default:
			return v.Person.Published.UnixNano()
		}
	}
	sort.SliceStable(vs, func(i, j int) bool {
		if o.Desc {
			return key(vs[i]) > key(vs[j])
		}
		return key(vs[i]) < key(vs[j])
	})
}

func page(vs []domain.PersonView, p personview.Page) []domain.PersonView {
	if p.Offset < 0 || p.Limit <= 0 || p.Offset >= int64(len(vs)) {
		return vs[:0]
	}
	end := p.Offset + p.Limit
	if end < p.Offset || end > int64(len(vs)) {
		end = int64(len(vs))
	}
	return vs[p.Offset:end]
}

func clonePerson(p domain.Person) domain.Person {
	out := p
	out.DisplayName = cloneStringPtr(p.DisplayName)
	out.Bio = cloneStringPtr(p.Bio)
	out.BanExpires = cloneTimePtr(p.BanExpires)
	out.Updated = cloneTimePtr(p.Updated)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
