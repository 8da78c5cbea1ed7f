package board

import (
	"errors"
	"net/http"
)

// Sentinel errors for the board domain. Callers wrap them with context and
// match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrOwnershipMismatch = errors.New("ownership mismatch")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("concurrent write conflict")
	ErrInvalidStatus     = errors.New("invalid status")
)

// Code is a machine-readable error code surfaced to API clients.
type Code string

const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeOwnershipMismatch Code = "OWNERSHIP_MISMATCH"
	CodeValidation        Code = "VALIDATION"
	CodeConflict          Code = "CONFLICT"
	CodeInternal          Code = "INTERNAL"
)

// CodeOf classifies err. Unknown errors are internal.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrOwnershipMismatch):
		return CodeOwnershipMismatch
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidStatus):
		return CodeValidation
	case errors.Is(err, ErrConflict):
		return CodeConflict
	default:
		return CodeInternal
	}
}

// HTTPStatus maps a code onto the response status the API returns.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeOwnershipMismatch:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
