package personview

import (
	"context"
	"testing"

	"github.com/Overland-East-Bay/person-views/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/person-views/internal/adapters/sqlite"
	"github.com/Overland-East-Bay/person-views/internal/domain"
	personviewport "github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

func newContractRepo(t *testing.T) (personviewport.Repository, contracttest.SeedFunc, func()) {
	t.Helper()
	db, err := sqlite.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	seed := func(ctx context.Context, p domain.Person, counts *domain.PersonAggregates, local *domain.LocalAccountFlags) error {
		return sqlite.Seed(ctx, db, p, counts, local)
	}
	return NewRepo(db), seed, func() { _ = db.Close() }
}

func TestContract_SQLitePersonViewRepo(t *testing.T) {
	contracttest.RunPersonViewRepo(t, newContractRepo)
}

func TestContract_SQLiteUnicodeSearch(t *testing.T) {
	contracttest.RunUnicodeSearch(t, newContractRepo)
}
