package personview

import (
	"testing"

	"github.com/Overland-East-Bay/person-views/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/person-views/internal/adapters/postgres/testutil"
	personviewport "github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

func TestContract_PostgresPersonViewRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunPersonViewRepo(t, func(t *testing.T) (personviewport.Repository, contracttest.SeedFunc, func()) {
		t.Helper()
		testutil.Truncate(t, pool)
		return NewRepo(pool), testutil.Seeder(pool), nil
	})
}
