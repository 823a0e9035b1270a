package broomate_errors

import "errors"

// Error kinds surfaced by the service layer. Callers classify with
// errors.Is; the boundary layer maps each kind to a client-visible status.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)
