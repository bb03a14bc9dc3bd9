package persons

import (
	"context"
	"errors"
	"time"

	"github.com/Overland-East-Bay/person-views/internal/app/pagination"
	"github.com/Overland-East-Bay/person-views/internal/domain"
	"github.com/Overland-East-Bay/person-views/internal/platform/logging"
	clockport "github.com/Overland-East-Bay/person-views/internal/ports/out/clock"
	"github.com/Overland-East-Bay/person-views/internal/ports/out/personview"
)

// Service answers person read-model queries. It holds no mutable state and is
// safe for concurrent use.
type Service struct {
	repo personview.Repository
	clk  clockport.Clock
	log  logging.Logger
}

// NewService wires a Service. A nil log discards output.
func NewService(repo personview.Repository, clk clockport.Clock, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{repo: repo, clk: clk, log: log}
}

// Read returns the view of one person.
func (s *Service) Read(ctx context.Context, id domain.PersonID) (domain.PersonView, error) {
	v, err := s.repo.Read(ctx, id)
	if err != nil {
		return domain.PersonView{}, s.fail(ctx, "read", err)
	}
	return v, nil
}

// IsAdmin reports whether the person's local account is an administrator.
// Persons without a local account yield ErrNotFound.
func (s *Service) IsAdmin(ctx context.Context, id domain.PersonID) (bool, error) {
	admin, err := s.repo.IsAdmin(ctx, id)
	if err != nil {
		return false, s.fail(ctx, "is_admin", err)
	}
	return admin, nil
}

// Admins lists non-deleted administrators, oldest first.
func (s *Service) Admins(ctx context.Context) ([]domain.PersonView, error) {
	return s.list(ctx, Admins{})
}

// Banned lists non-deleted persons whose ban is in force at call time.
func (s *Service) Banned(ctx context.Context) ([]domain.PersonView, error) {
	return s.list(ctx, Banned{})
}

// List runs an ad-hoc query: optional fuzzy name search, sort and page.
func (s *Service) List(ctx context.Context, q PersonQuery) ([]domain.PersonView, error) {
	return s.list(ctx, Query{q})
}

// List runs q against svc.
func (q PersonQuery) List(ctx context.Context, svc *Service) ([]domain.PersonView, error) {
	return svc.List(ctx, q)
}

func (s *Service) list(ctx context.Context, mode ListMode) ([]domain.PersonView, error) {
	start := time.Now()
	l, err := compose(mode, s.clk.Now())
	if err != nil {
		return nil, s.fail(ctx, "list_"+modeNameOf(mode), err)
	}

	views, err := s.repo.List(ctx, l)
	if err != nil {
		return nil, s.fail(ctx, "list_"+modeNameOf(mode), err)
	}
	s.log.WithContext(ctx).Debug("listed persons",
		logging.F("mode", modeNameOf(mode)),
		logging.F("rows", len(views)),
		logging.F("duration", time.Since(start)),
	)
	return views, nil
}

func modeNameOf(mode ListMode) string {
	if mode == nil {
		return Query{}.modeName()
	}
	return mode.modeName()
}

// fail classifies a collaborator error. Nothing is retried or recovered.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	var pe *Error
	switch {
	case errors.As(err, &pe):
		return err
	case errors.Is(err, personview.ErrNotFound):
		return raise(ErrNotFound, op, err)
	case errors.Is(err, pagination.ErrInvalidPagination):
		return raise(ErrInvalidPagination, op, err)
	default:
		s.log.WithContext(ctx).Error("person query failed", logging.F("op", op), logging.Err(err))
		return raise(ErrStorage, op, err)
	}
}
