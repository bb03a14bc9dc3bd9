package persons

import "fmt"

const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidPagination = "INVALID_PAGINATION"
	CodeStorage           = "STORAGE_ERROR"
)

// Error is an application-layer error that can be mapped to an HTTP response.
// Two Errors match under errors.Is when their codes are equal, so callers can
// test against ErrNotFound, ErrInvalidPagination and ErrStorage.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any

	// Err is the collaborator error this one was raised for.
	Err error
}

var (
	ErrNotFound          = &Error{Status: 404, Code: CodeNotFound, Message: "person not found"}
	ErrInvalidPagination = &Error{Status: 400, Code: CodeInvalidPagination, Message: "invalid pagination"}
	ErrStorage           = &Error{Status: 500, Code: CodeStorage, Message: "storage error"}
)

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t.Code == e.Code
}

func raise(kind *Error, op string, cause error) *Error {
	return &Error{
		Status:  kind.Status,
		Code:    kind.Code,
		Message: kind.Message,
		Details: map[string]any{"op": op},
		Err:     cause,
	}
}
