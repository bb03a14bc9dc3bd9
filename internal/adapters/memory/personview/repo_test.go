package personview

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Overland-East-Bay/person-views/internal/domain"
	"github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

func TestRepo_SeedRejectsEmptyID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	if err := r.Seed(context.Background(), domain.Person{Name: "x"}, nil, nil); err == nil {
		t.Fatalf("Seed() expected error for empty id")
	}
}

func TestRepo_ReadReturnsCopies(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	dn := "Alice"
	p := domain.Person{ID: domain.NewPersonID(), Name: "alice", DisplayName: &dn, Published: time.Unix(1, 0).UTC()}
	if err := r.Seed(context.Background(), p, &domain.PersonAggregates{}, nil); err != nil {
		t.Fatalf("Seed() err=%v", err)
	}

	got, err := r.Read(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Read() err=%v", err)
	}
	*got.Person.DisplayName = "mutated"

	again, err := r.Read(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Read() err=%v", err)
	}
	if *again.Person.DisplayName != "Alice" {
		t.Fatalf("stored display name changed to %q", *again.Person.DisplayName)
	}
}

func TestRepo_SeedReplacesJoinedRows(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	p := domain.Person{ID: domain.NewPersonID(), Name: "p"}
	if err := r.Seed(context.Background(), p, &domain.PersonAggregates{PostCount: 1}, &domain.LocalAccountFlags{Admin: true}); err != nil {
		t.Fatalf("Seed() err=%v", err)
	}
	if err := r.Seed(context.Background(), p, nil, nil); err != nil {
		t.Fatalf("Seed() err=%v", err)
	}
	if _, err := r.Read(context.Background(), p.ID); err != personview.ErrNotFound {
		t.Fatalf("Read() err=%v, want %v", err, personview.ErrNotFound)
	}
	if _, err := r.IsAdmin(context.Background(), p.ID); err != personview.ErrNotFound {
		t.Fatalf("IsAdmin() err=%v, want %v", err, personview.ErrNotFound)
	}
}

func TestRepo_ConcurrentReadsAndSeeds(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p := domain.Person{ID: domain.NewPersonID(), Name: "n"}
			_ = r.Seed(context.Background(), p, &domain.PersonAggregates{}, nil)
		}()
		go func() {
			defer wg.Done()
			_, _ = r.List(context.Background(), personview.Listing{})
		}()
	}
	wg.Wait()

	got, err := r.List(context.Background(), personview.Listing{})
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	if len(got) != 8 {
		t.Fatalf("List() len=%d, want 8", len(got))
	}
}

func TestRepo_ListOutOfRangePageIsEmpty(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		p := domain.Person{ID: domain.NewPersonID(), Name: name, Published: time.Unix(1, 0).UTC()}
		if err := r.Seed(ctx, p, &domain.PersonAggregates{}, nil); err != nil {
			t.Fatalf("Seed() err=%v", err)
		}
	}

	pages := []personview.Page{
		{Limit: 10, Offset: -9223372036854775808},
		{Limit: 10, Offset: 3},
		{Limit: 9223372036854775807, Offset: 1},
	}
	want := []int{0, 0, 2}
	for i, pg := range pages {
		pg := pg
		got, err := r.List(ctx, personview.Listing{Page: &pg})
		if err != nil {
			t.Fatalf("List(%+v) err=%v", pg, err)
		}
		if len(got) != want[i] {
			t.Fatalf("List(%+v) len=%d, want %d", pg, len(got), want[i])
		}
	}
}
