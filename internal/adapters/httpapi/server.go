package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/Overland-East-Bay/person-views/internal/app/persons"
	"github.com/Overland-East-Bay/person-views/internal/domain"
	"github.com/Overland-East-Bay/person-views/internal/platform/logging"
)

// Server exposes the person read-model over HTTP.
type Server struct {
	Persons *persons.Service
	log     logging.Logger
}

func NewServer(svc *persons.Service, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{Persons: svc, log: log}
}

func (s *Server) routes(r chi.Router) {
	r.Get("/persons", s.ListPersons)
	r.Get("/persons/{personID}", s.GetPerson)
	r.Get("/persons/{personID}/admin", s.GetPersonAdmin)
	r.Get("/admins", s.ListAdmins)
	r.Get("/banned", s.ListBanned)
}

func personIDParam(r *http.Request) (domain.PersonID, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "personID", chi.URLParam(r, "personID"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	return domain.PersonID(id), err
}

func (s *Server) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := personIDParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	}
	v, err := s.Persons.Read(r.Context(), id)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonView(v))
}

func (s *Server) GetPersonAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := personIDParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	}
	admin, err := s.Persons.IsAdmin(r.Context(), id)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AdminStatus{Admin: admin})
}

func (s *Server) ListAdmins(w http.ResponseWriter, r *http.Request) {
	vs, err := s.Persons.Admins(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonList(vs))
}

func (s *Server) ListBanned(w http.ResponseWriter, r *http.Request) {
	vs, err := s.Persons.Banned(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonList(vs))
}

// ListPersons serves GET /persons?sort=&q=&page=&limit=.
func (s *Server) ListPersons(w http.ResponseWriter, r *http.Request) {
	var (
		params struct {
			Sort  *string
			Q     *string
			Page  *int64
			Limit *int64
		}
		query = r.URL.Query()
	)
	for name, dest := range map[string]any{
		"sort":  &params.Sort,
		"q":     &params.Q,
		"page":  &params.Page,
		"limit": &params.Limit,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
			return
		}
	}

	q := persons.PersonQuery{
		SearchTerm: params.Q,
		Page:       params.Page,
		Limit:      params.Limit,
	}
	if params.Sort != nil {
		st := domain.SortType(*params.Sort)
		q.Sort = &st
	}

	vs, err := q.List(r.Context(), s.Persons)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonList(vs))
}
