package service

import (
	"errors"
	"fmt"

	"shop-orders/internal/domain"
)

// Error carries a client-facing message alongside one of the domain sentinel
// errors, which callers match with errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidSignature):
		return "invalid"
	default:
		return "error"
	}
}
