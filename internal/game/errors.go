package game

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of them.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrIllegalState      = errors.New("illegal state transition")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrRoleDenied is an ErrIllegalState raised when the acting player's
	// role does not allow the operation.
	ErrRoleDenied = fmt.Errorf("%w: role denied", ErrIllegalState)
)

func failf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
