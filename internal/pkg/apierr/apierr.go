package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, "not_found", fmt.Errorf("%s not found", what))
}

func Conflict(err error) *Error {
	return New(http.StatusConflict, "conflict", err)
}

func Invalid(err error) *Error {
	return New(http.StatusBadRequest, "invalid_argument", err)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "internal", err)
}

// From maps an arbitrary error onto the HTTP taxonomy. Store-level
// record-not-found and duplicate-key errors surface as 404/409; everything
// else is a 500 unless already an *Error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return New(http.StatusNotFound, "not_found", err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return New(http.StatusConflict, "conflict", err)
	}
	return Internal(err)
}
