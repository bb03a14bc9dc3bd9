package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/Overland-East-Bay/person-views/internal/app/persons"
	"github.com/Overland-East-Bay/person-views/internal/platform/logging"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestID = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

// writeAppError maps service errors onto responses. Storage details stay in
// the logs; clients only see the code.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	ae := (*persons.Error)(nil)
	if errors.As(err, &ae) {
		switch ae.Code {
		case persons.CodeNotFound:
			writeError(w, r, ae.Status, ae.Code, ae.Message)
			return
		case persons.CodeInvalidPagination:
			msg := ae.Message
			if ae.Err != nil {
				msg = ae.Err.Error()
			}
			writeError(w, r, ae.Status, ae.Code, msg)
			return
		}
	}
	s.log.WithContext(r.Context()).Error("request failed", logging.F("path", r.URL.Path), logging.Err(err))
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
}
