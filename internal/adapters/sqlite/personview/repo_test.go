package personview

import (
	"context"
	"testing"

	"github.com/Overland-East-Bay/person-views/internal/domain"
	"github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

func TestRepo_NilDB(t *testing.T) {
	t.Parallel()

	r := NewRepo(nil)
	if _, err := r.Read(context.Background(), domain.NewPersonID()); err == nil {
		t.Fatalf("Read() expected error")
	}
	if _, err := r.IsAdmin(context.Background(), domain.NewPersonID()); err == nil {
		t.Fatalf("IsAdmin() expected error")
	}
	if _, err := r.List(context.Background(), personview.Listing{}); err == nil {
		t.Fatalf("List() expected error")
	}
}
